package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/mawuli/field-survey/client"
	"github.com/mawuli/field-survey/config"
	"github.com/mawuli/field-survey/draftstore"
	"github.com/mawuli/field-survey/log"
	"github.com/mawuli/field-survey/model"
	"github.com/mawuli/field-survey/reconciler"
	"github.com/mawuli/field-survey/report"
)

func runList(ctx context.Context, store *draftstore.Store) {
	surveys, err := store.GetAll(ctx)
	if err != nil {
		log.Fatal("field.list:", err)
	}

	if len(surveys) == 0 {
		fmt.Println("no surveys captured yet")
		return
	}
	for _, s := range surveys {
		fmt.Printf("%-24s  %-10s  %-20s  %s\n",
			s.SurveyID, s.SyncStatus, s.RespondentName, s.Timestamp)
	}
}

func runCounts(ctx context.Context, store *draftstore.Store) {
	counts, err := store.CountsByStatus(ctx)
	if err != nil {
		log.Fatal("field.counts:", err)
	}
	fmt.Printf("total %d: %d pending, %d synced, %d failed\n",
		counts.Total, counts.Pending, counts.Synced, counts.Failed)
}

func runSync(ctx context.Context, cfg config.Config, store *draftstore.Store, remote *client.Client) {
	rec := reconciler.New(store, remote, cfg.SyncInterval)

	result, ran := rec.RunOnce(ctx, reconciler.TriggerManual)
	if !ran {
		fmt.Println("a sync is already running")
		return
	}
	printSyncResult(result)
	if !result.Success {
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, cfg config.Config, store *draftstore.Store, remote *client.Client) {
	rec := reconciler.New(store, remote, cfg.SyncInterval)
	rec.SyncNow()
	rec.Run(ctx)
}

func printSyncResult(result model.SyncResult) {
	if result.Success {
		fmt.Printf("synced %d surveys\n", result.SyncedCount)
		return
	}
	fmt.Printf("sync incomplete: %d synced, %d failed\n", result.SyncedCount, result.FailedCount)
	for _, msg := range result.Errors {
		fmt.Println("  -", msg)
	}
}

// runExport prints the offline-tolerant merged view: everything the server
// has, plus local records it has not seen yet.
func runExport(ctx context.Context, cfg config.Config, store *draftstore.Store, remote *client.Client) {
	local, err := store.GetAll(ctx)
	if err != nil {
		log.Fatal("field.export:", err)
	}

	var remoteSurveys []model.Survey
	if remote.Probe(ctx) {
		remoteSurveys, err = remote.ListSurveys(ctx, "")
		if err != nil {
			log.Warn("field.export: remote fetch failed, exporting local records only:", err)
		}
	} else {
		log.Warn("field.export: server unreachable, exporting local records only")
	}

	merged := report.Merge(local, remoteSurveys)

	switch cfg.Format {
	case "json":
		err = report.WriteJSON(os.Stdout, merged)
	case "csv":
		err = report.WriteCSV(os.Stdout, merged)
	default:
		err = errors.Errorf("unknown format %q", cfg.Format)
	}
	if err != nil {
		log.Fatal("field.export:", err)
	}
}

func runDelete(ctx context.Context, cfg config.Config, store *draftstore.Store) {
	if cfg.SurveyID == "" {
		log.Fatal("field.delete: missing -id")
	}

	err := store.Delete(ctx, cfg.SurveyID)
	if errors.Is(err, draftstore.ErrNotFound) {
		log.Fatalf("field.delete: no survey %s", cfg.SurveyID)
	}
	if err != nil {
		log.Fatal("field.delete:", err)
	}
	fmt.Printf("deleted %s\n", cfg.SurveyID)
}
