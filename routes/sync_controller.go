package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/hashicorp/go-multierror"

	"github.com/mawuli/field-survey/app"
	"github.com/mawuli/field-survey/log"
	"github.com/mawuli/field-survey/model"
)

// SyncAvailable is the availability probe gating client sync attempts.
func SyncAvailable(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.PingContext(r.Context())
		if err != nil {
			log.Warnf("sync.probe: %s", err)
		}
		render.JSON(w, r, map[string]any{
			"available": err == nil,
		})
	}
}

// SyncBatch reconciles a batch of locally pending records against the
// store: upsert by id, per-record errors collected, one round trip for the
// whole batch.
func SyncBatch(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys := []model.Survey{}
		err := render.DecodeJSON(r.Body, &surveys)
		if err != nil {
			log.Debugf("sync.parse_body: %s", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": "Invalid surveys data"})
			return
		}

		if err := app.PingContext(r.Context()); err != nil {
			log.Errorf("sync.unavailable: %s", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, model.SyncResult{
				Errors: []string{"database is not available"},
			})
			return
		}

		result := model.SyncResult{Success: true, Errors: []string{}}
		var errs *multierror.Error

		for _, survey := range surveys {
			if err := upsertSurvey(r.Context(), app, survey); err != nil {
				result.FailedCount++
				errs = multierror.Append(errs,
					fmt.Errorf("failed to sync survey %s: %w", survey.SurveyID, err))
				continue
			}
			result.SyncedCount++
		}

		if errs != nil {
			result.Success = false
			for _, err := range errs.Errors {
				log.Errorf("sync.upsert: %s", err)
				result.Errors = append(result.Errors, err.Error())
			}
		}

		render.JSON(w, r, result)
	}
}

func upsertSurvey(ctx context.Context, app app.App, survey model.Survey) error {
	// the acknowledged copy is stored synced, whatever the client sent
	now := time.Now().UTC().Format(time.RFC3339)
	survey.SyncStatus = model.StatusSynced
	survey.SyncedAt = now

	doc, err := json.Marshal(survey)
	if err != nil {
		return err
	}

	var exists bool
	err = app.QueryRowContext(ctx,
		`SELECT 1 FROM survey WHERE id = ?`, survey.SurveyID,
	).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if exists {
		_, err = app.ExecContext(ctx, `
			UPDATE survey
			SET
				survey_data = ?,
				status = ?,
				updated_at = CURRENT_TIMESTAMP,
				synced_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			string(doc),
			string(model.StatusSynced),
			survey.SurveyID,
		)
		return err
	}

	_, err = app.ExecContext(ctx, `
		INSERT INTO survey (id, survey_data, status, enumerator_id, location, synced_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		survey.SurveyID,
		string(doc),
		string(model.StatusSynced),
		survey.EnumeratorName,
		surveyLocation(survey),
	)
	return err
}
