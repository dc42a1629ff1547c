package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bobmcallan/papertrade/internal/models"
)

func TestHandleEducationModules(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	rec := doAuthed(t, srv, http.MethodGet, "/api/education/modules", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var modules []models.LearningModule
	json.NewDecoder(rec.Body).Decode(&modules)
	if len(modules) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(modules))
	}
	for _, m := range modules {
		if m.Completed {
			t.Errorf("expected module %d incomplete for a new user", m.ID)
		}
		if len(m.Content) == 0 {
			t.Errorf("expected content for module %d", m.ID)
		}
	}
}

func TestHandleEducationModules_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doAuthed(t, srv, http.MethodGet, "/api/education/modules", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestHandleEducationComplete(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	rec := doAuthed(t, srv, http.MethodPost, "/api/education/modules/1/complete", token, jsonBody(t, struct{}{}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var completion models.ModuleCompletion
	json.NewDecoder(rec.Body).Decode(&completion)
	if completion.PointsEarned != 100 {
		t.Errorf("expected 100 points earned, got %d", completion.PointsEarned)
	}
	if completion.TotalPoints != 100 {
		t.Errorf("expected 100 total points, got %d", completion.TotalPoints)
	}
	if completion.CurrentLevel != 1 {
		t.Errorf("expected level 1, got %d", completion.CurrentLevel)
	}

	// The completion shows up in the module list
	rec = doAuthed(t, srv, http.MethodGet, "/api/education/modules", token, nil)
	var modules []models.LearningModule
	json.NewDecoder(rec.Body).Decode(&modules)
	for _, m := range modules {
		if m.ID == 1 && !m.Completed {
			t.Error("expected module 1 marked complete")
		}
	}
}

func TestHandleEducationComplete_Repeat(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	doAuthed(t, srv, http.MethodPost, "/api/education/modules/2/complete", token, jsonBody(t, struct{}{}))
	rec := doAuthed(t, srv, http.MethodPost, "/api/education/modules/2/complete", token, jsonBody(t, struct{}{}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var completion models.ModuleCompletion
	json.NewDecoder(rec.Body).Decode(&completion)
	if completion.PointsEarned != 0 {
		t.Errorf("expected no points on repeat completion, got %d", completion.PointsEarned)
	}
	if completion.TotalPoints != 100 {
		t.Errorf("expected total unchanged at 100, got %d", completion.TotalPoints)
	}
}

func TestHandleEducationComplete_UnknownModule(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	rec := doAuthed(t, srv, http.MethodPost, "/api/education/modules/99/complete", token, jsonBody(t, struct{}{}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown module, got %d", rec.Code)
	}
}

func TestHandleEducationComplete_InvalidID(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	rec := doAuthed(t, srv, http.MethodPost, "/api/education/modules/abc/complete", token, jsonBody(t, struct{}{}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}
