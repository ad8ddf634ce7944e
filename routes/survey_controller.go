package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/mattn/go-sqlite3"

	"github.com/mawuli/field-survey/app"
	"github.com/mawuli/field-survey/httpx"
	"github.com/mawuli/field-survey/log"
	"github.com/mawuli/field-survey/model"
	"github.com/mawuli/field-survey/report"
)

// CreateSurvey inserts one record. Insert never overwrites: a duplicate id
// is a conflict and the caller must go through the update path.
func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := app.Validate.Struct(survey); err != nil {
			log.Debugf("create_survey.validate: %s", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": "Missing required fields"})
			return
		}

		// server-set metadata
		now := time.Now().UTC().Format(time.RFC3339)
		survey.Timestamp = now
		survey.SyncStatus = model.StatusSynced
		survey.SyncedAt = now

		doc, err := json.Marshal(survey)
		if err != nil {
			httpx.LogInternalError(w, "create_survey.encode", err)
			return
		}

		_, err = app.ExecContext(r.Context(), `
			INSERT INTO survey (id, survey_data, status, enumerator_id, location, synced_at)
			VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
			survey.SurveyID,
			string(doc),
			string(model.StatusSynced),
			survey.EnumeratorName,
			surveyLocation(survey),
		)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				log.Debugf("create_survey.conflict: %s", survey.SurveyID)
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, map[string]any{"error": "Survey already exists"})
				return
			}
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "Survey saved successfully",
			"survey":  survey,
		})
	}
}

func surveyLocation(survey model.Survey) string {
	if survey.FarmLocation != "" {
		return survey.FarmLocation
	}
	return survey.Location
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		switch status {
		case "draft", "submitted", "synced":
			// recognized projection filters
		default:
			status = ""
		}

		surveys, err := loadSurveys(r.Context(), app, status)
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
			"total":   len(surveys),
		})
	}
}

func loadSurveys(ctx context.Context, app app.App, status string) ([]model.Survey, error) {
	query := `SELECT survey_data FROM survey`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := app.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}

		survey := model.Survey{}
		if err := json.Unmarshal([]byte(doc), &survey); err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

// UpdateSurvey shallow-merges the supplied fields into the stored document.
func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := map[string]any{}
		err := render.DecodeJSON(r.Body, &fields)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		surveyId, _ := fields["surveyId"].(string)
		if surveyId == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": "Survey ID is required"})
			return
		}

		var stored string
		err = app.QueryRowContext(r.Context(),
			`SELECT survey_data FROM survey WHERE id = ?`, surveyId,
		).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("update_survey: not found (%s)", surveyId)
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]any{"error": "Survey not found"})
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		doc := map[string]any{}
		if err := json.Unmarshal([]byte(stored), &doc); err != nil {
			httpx.LogInternalError(w, "update_survey.decode", err)
			return
		}
		for key, value := range fields {
			if key == "surveyId" {
				continue
			}
			doc[key] = value
		}
		doc["syncedAt"] = time.Now().UTC().Format(time.RFC3339)

		merged, err := json.Marshal(doc)
		if err != nil {
			httpx.LogInternalError(w, "update_survey.encode", err)
			return
		}

		_, err = app.ExecContext(r.Context(), `
			UPDATE survey
			SET survey_data = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			string(merged), surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message": "Survey updated successfully",
			"survey":  doc,
		})
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := r.URL.Query().Get("surveyId")
		if surveyId == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": "Survey ID is required"})
			return
		}

		res, err := app.ExecContext(r.Context(),
			`DELETE FROM survey WHERE id = ?`, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey", err)
			return
		}

		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey.verify", err)
			return
		}
		if n < 1 {
			log.Debugf("delete_survey: not found (%s)", surveyId)
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]any{"error": "Survey not found"})
			return
		}

		render.JSON(w, r, map[string]any{
			"message": "Survey deleted successfully",
		})
	}
}

// Analytics serves the descriptive statistics over every stored record.
func Analytics(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := loadSurveys(r.Context(), app, "")
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"overview":           report.BuildOverview(surveys),
			"challenges":         report.BuildChallengeStats(surveys),
			"incomeDistribution": report.IncomeDistribution(surveys),
			"geographicCounts":   report.GeographicCounts(surveys),
			"farmingPractices":   report.PracticeCounts(surveys),
		})
	}
}

// ExportSurveys streams the stored records as CSV (default) or JSON.
func ExportSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := loadSurveys(r.Context(), app, "")
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}

		switch r.URL.Query().Get("format") {
		case "json":
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Disposition", `attachment; filename="surveys.json"`)
			err = report.WriteJSON(w, surveys)
		default:
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="surveys.csv"`)
			err = report.WriteCSV(w, surveys)
		}
		if err != nil {
			log.Errorf("export_surveys.write: %s", err)
		}
	}
}
