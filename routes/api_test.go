package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mawuli/field-survey/app"
	"github.com/mawuli/field-survey/config"
	"github.com/mawuli/field-survey/database"
	"github.com/mawuli/field-survey/httpx"
	"github.com/mawuli/field-survey/model"
)

func newTestAPI(t *testing.T) (app.App, http.Handler) {
	t.Helper()

	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "fieldsurvey.sqlite"),
		TokenSecret: "testing-secret",
		TokenTTL:    time.Minute,
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	a := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Validate:     validator.New(),
	}
	return a, Wire(a)
}

func doJSON(t *testing.T, handler http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func validSurvey(respondent string) model.Survey {
	s := model.NewDraft("Ama Mensah")
	s.RespondentName = respondent
	s.Age = 24
	s.Location = "Volta/Ho/Ziavi"
	s.CultivatesVegetables = "yes"
	return s
}

func TestCreateSurvey(t *testing.T) {
	_, handler := newTestAPI(t)

	survey := validSurvey("Kofi Boateng")
	rec := doJSON(t, handler, "POST", "/api/surveys", survey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["message"] != "Survey saved successfully" {
		t.Errorf("unexpected message %v", body["message"])
	}
	saved := body["survey"].(map[string]any)
	if saved["syncStatus"] != "synced" {
		t.Errorf("expected server-side copy stored synced, got %v", saved["syncStatus"])
	}
	if saved["syncedAt"] == "" {
		t.Error("expected syncedAt set by the server")
	}
}

func TestCreateSurveyMissingFields(t *testing.T) {
	_, handler := newTestAPI(t)

	rec := doJSON(t, handler, "POST", "/api/surveys", map[string]any{
		"surveyId": "SURV-X",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Missing required fields" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestCreateSurveyDuplicate(t *testing.T) {
	_, handler := newTestAPI(t)

	survey := validSurvey("Kofi Boateng")
	if rec := doJSON(t, handler, "POST", "/api/surveys", survey); rec.Code != http.StatusCreated {
		t.Fatalf("first create failed: %d", rec.Code)
	}

	rec := doJSON(t, handler, "POST", "/api/surveys", survey)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Survey already exists" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestListSurveysStatusFilterAndOrder(t *testing.T) {
	a, handler := newTestAPI(t)

	insert := func(id, status, createdAt string) {
		doc, _ := json.Marshal(model.Survey{SurveyID: id, SyncStatus: model.SyncStatus(status)})
		_, err := a.Exec(`
			INSERT INTO survey (id, survey_data, status, enumerator_id, location, created_at)
			VALUES (?, ?, ?, '', '', ?)`,
			id, string(doc), status, createdAt)
		if err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	insert("SURV-OLD", "synced", "2026-08-01 10:00:00")
	insert("SURV-NEW", "synced", "2026-08-02 10:00:00")
	insert("SURV-DRAFT", "draft", "2026-08-03 10:00:00")

	rec := doJSON(t, handler, "GET", "/api/surveys", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total"].(float64) != 3 {
		t.Errorf("expected 3 surveys, got %v", body["total"])
	}
	surveys := body["surveys"].([]any)
	if surveys[0].(map[string]any)["surveyId"] != "SURV-DRAFT" {
		t.Errorf("expected newest first, got %v", surveys[0])
	}

	rec = doJSON(t, handler, "GET", "/api/surveys?status=synced", nil)
	body = decodeBody(t, rec)
	if body["total"].(float64) != 2 {
		t.Errorf("expected 2 synced surveys, got %v", body["total"])
	}

	// unknown filter values are ignored, not an error
	rec = doJSON(t, handler, "GET", "/api/surveys?status=bogus", nil)
	if decodeBody(t, rec)["total"].(float64) != 3 {
		t.Error("expected unknown status filter to be ignored")
	}
}

func TestSyncAvailable(t *testing.T) {
	_, handler := newTestAPI(t)

	rec := doJSON(t, handler, "GET", "/api/sync", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["available"] != true {
		t.Errorf("expected available, got %s", rec.Body.String())
	}
}

func TestSyncBatchBadBody(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest("POST", "/api/sync", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Invalid surveys data" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

// TestSyncBatchStoresSynced covers the reconciliation round trip: a pending
// record pushed through /sync comes back from /surveys as synced.
func TestSyncBatchStoresSynced(t *testing.T) {
	_, handler := newTestAPI(t)

	survey := validSurvey("Kofi Boateng")
	survey.SyncStatus = model.StatusPending

	rec := doJSON(t, handler, "POST", "/api/sync", []model.Survey{survey})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result model.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success || result.SyncedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	list := decodeBody(t, doJSON(t, handler, "GET", "/api/surveys?status=synced", nil))
	if list["total"].(float64) != 1 {
		t.Fatalf("expected the synced record listed, got %v", list["total"])
	}
	stored := list["surveys"].([]any)[0].(map[string]any)
	if stored["surveyId"] != survey.SurveyID {
		t.Errorf("wrong record %v", stored["surveyId"])
	}
	if stored["syncStatus"] != "synced" {
		t.Errorf("expected stored copy synced, got %v", stored["syncStatus"])
	}

	// resending the same record is idempotent
	rec = doJSON(t, handler, "POST", "/api/sync", []model.Survey{survey})
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success || result.SyncedCount != 1 {
		t.Errorf("expected idempotent resend, got %+v", result)
	}
	list = decodeBody(t, doJSON(t, handler, "GET", "/api/surveys", nil))
	if list["total"].(float64) != 1 {
		t.Errorf("expected still one record, got %v", list["total"])
	}
}

func TestUpdateSurveyMerges(t *testing.T) {
	_, handler := newTestAPI(t)

	survey := validSurvey("Kofi Boateng")
	doJSON(t, handler, "POST", "/api/surveys", survey)

	rec := doJSON(t, handler, "PUT", "/api/surveys", map[string]any{
		"surveyId": survey.SurveyID,
		"age":      30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updated := decodeBody(t, rec)["survey"].(map[string]any)
	if updated["age"].(float64) != 30 {
		t.Errorf("expected merged age, got %v", updated["age"])
	}
	if updated["respondentName"] != "Kofi Boateng" {
		t.Errorf("expected untouched fields kept, got %v", updated["respondentName"])
	}

	list := decodeBody(t, doJSON(t, handler, "GET", "/api/surveys", nil))
	stored := list["surveys"].([]any)[0].(map[string]any)
	if stored["age"].(float64) != 30 {
		t.Errorf("expected merge persisted, got %v", stored["age"])
	}
}

func TestUpdateSurveyUnknownID(t *testing.T) {
	_, handler := newTestAPI(t)

	rec := doJSON(t, handler, "PUT", "/api/surveys", map[string]any{
		"surveyId": "SURV-NOPE",
		"age":      30,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Survey not found" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	// the failed update must not create a record
	list := decodeBody(t, doJSON(t, handler, "GET", "/api/surveys", nil))
	if list["total"].(float64) != 0 {
		t.Errorf("expected no records, got %v", list["total"])
	}
}

func TestUpdateSurveyMissingID(t *testing.T) {
	_, handler := newTestAPI(t)

	rec := doJSON(t, handler, "PUT", "/api/surveys", map[string]any{"age": 30})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteSurveyRequiresToken(t *testing.T) {
	_, handler := newTestAPI(t)

	req := httptest.NewRequest("DELETE", "/api/surveys?surveyId=SURV-X", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}

func loginToken(t *testing.T, a app.App, handler http.Handler) string {
	t.Helper()

	if err := httpx.InitOperator(a.DB, "admin", "pa55word"); err != nil {
		t.Fatalf("init operator: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/login", nil)
	req.SetBasicAuth("admin", "pa55word")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	token, ok := decodeBody(t, rec)["access_token"].(string)
	if !ok || token == "" {
		t.Fatalf("no access token in %s", rec.Body.String())
	}
	return token
}

func TestDeleteSurveyWithToken(t *testing.T) {
	a, handler := newTestAPI(t)
	token := loginToken(t, a, handler)

	survey := validSurvey("Kofi Boateng")
	doJSON(t, handler, "POST", "/api/surveys", survey)

	req := httptest.NewRequest("DELETE", "/api/surveys?surveyId="+survey.SurveyID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Survey deleted successfully" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	// deleting again reports not found
	req = httptest.NewRequest("DELETE", "/api/surveys?surveyId="+survey.SurveyID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestAnalytics(t *testing.T) {
	a, handler := newTestAPI(t)
	token := loginToken(t, a, handler)

	doJSON(t, handler, "POST", "/api/surveys", validSurvey("Kofi Boateng"))

	req := httptest.NewRequest("GET", "/api/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	overview := body["overview"].(map[string]any)
	if overview["totalSurveys"].(float64) != 1 {
		t.Errorf("unexpected overview %v", overview)
	}
}

func TestExportSurveysCSV(t *testing.T) {
	a, handler := newTestAPI(t)
	token := loginToken(t, a, handler)

	doJSON(t, handler, "POST", "/api/surveys", validSurvey("Kofi Boateng"))

	req := httptest.NewRequest("GET", "/api/admin/surveys/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected csv content type, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Survey ID") {
		t.Errorf("expected csv header, got %q", rec.Body.String()[:40])
	}
}
