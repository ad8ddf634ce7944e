// Command field is the enumerator's offline-first client: capture surveys
// locally, inspect and export them, and reconcile pending records with the
// remote store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mawuli/field-survey/client"
	"github.com/mawuli/field-survey/config"
	"github.com/mawuli/field-survey/draftstore"
	"github.com/mawuli/field-survey/log"
)

const usage = `usage: field <command> [flags]

commands:
  capture   run the interactive capture wizard
  list      list locally stored surveys
  counts    show local sync-status counts
  sync      push pending surveys to the server once
  watch     keep syncing in the background until interrupted
  export    print the merged local+remote records (-format csv|json)
  delete    remove a local survey (-id)
  wipe      destroy and recreate the local store (unsynced data is lost)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.ParseFieldFlags(os.Args[2:])
	if err != nil {
		log.Fatal("field.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if command == "wipe" {
		runWipe(ctx, cfg)
		return
	}

	store, err := draftstore.Open(cfg.LocalDB)
	if err != nil {
		// no migration path between local schema versions: the recovery
		// is destructive
		log.Error("field.store:", err)
		log.Fatal("local store unusable; run 'field wipe' to recreate it (unsynced data is lost)")
	}
	defer store.Close()

	remote := client.New(cfg.APIUrl, cfg.ProbeTimeout)

	switch command {
	case "capture":
		runCapture(ctx, store)
	case "list":
		runList(ctx, store)
	case "counts":
		runCounts(ctx, store)
	case "sync":
		runSync(ctx, cfg, store, remote)
	case "watch":
		runWatch(ctx, cfg, store, remote)
	case "export":
		runExport(ctx, cfg, store, remote)
	case "delete":
		runDelete(ctx, cfg, store)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// runWipe handles recovery even when the store cannot be opened: a schema
// mismatch means Open itself fails, so fall back to removing the file.
func runWipe(ctx context.Context, cfg config.Config) {
	store, err := draftstore.Open(cfg.LocalDB)
	if err != nil {
		if err := os.Remove(cfg.LocalDB); err != nil {
			log.Fatal("field.wipe:", err)
		}
		log.Infof("removed unreadable local store %s", cfg.LocalDB)
		return
	}
	defer store.Close()

	if err := store.Wipe(ctx); err != nil {
		log.Fatal("field.wipe:", err)
	}
	log.Info("local store wiped and recreated")
}
