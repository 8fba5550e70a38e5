package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"tasklist/internal/domain"
	httpserver "tasklist/internal/http"
	"tasklist/internal/repository"
	"tasklist/internal/service"
	"tasklist/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fixture struct {
	db     *pgxpool.Pool
	router *gin.Engine
	audit  *repository.AuditRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := openDB(t)
	service.SetJWTSecret("e2e-secret")

	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	audit := repository.NewAuditRepository(db)
	tasks := service.NewTaskService(repository.NewTaskRepository(db), service.NewAuditService(audit), hub)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Deps{Tasks: tasks, DB: db, Hub: hub, Version: "e2e", RateLimit: 1000})
	return fixture{db: db, router: r, audit: audit}
}

func (f fixture) do(t *testing.T, method, path string, userID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := service.GenerateJWT(userID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestE2E_TaskLifecycleWithAudit(t *testing.T) {
	f := newFixture(t)
	owner := newUser(t, f.db, "e2e-owner")
	intruder := newUser(t, f.db, "e2e-intruder")

	rec := f.do(t, "POST", "/tasks", owner.ID, `{"task":"Buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID        int64 `json:"id"`
		Completed bool  `json:"completed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	path := "/tasks/" + strconv.FormatInt(created.ID, 10)

	if rec := f.do(t, "PATCH", path, intruder.ID, `{"completed":true}`); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign update: expected 404 got %d", rec.Code)
	}
	if rec := f.do(t, "PATCH", path, owner.ID, `{"completed":true}`); rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d", rec.Code)
	}
	if rec := f.do(t, "DELETE", path, owner.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204 got %d", rec.Code)
	}
	if rec := f.do(t, "GET", "/tasks", owner.ID, ""); strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}

	logs, err := f.audit.GetByUserID(context.Background(), owner.ID, 10)
	if err != nil {
		t.Fatalf("audit logs: %v", err)
	}
	want := []string{domain.AuditActionTaskDelete, domain.AuditActionTaskUpdate, domain.AuditActionTaskCreate}
	if len(logs) != len(want) {
		t.Fatalf("expected %d audit logs, got %d", len(want), len(logs))
	}
	for i, action := range want {
		if logs[i].Action != action || logs[i].Category != domain.AuditCategoryTask {
			t.Fatalf("log %d: expected %s, got %+v", i, action, logs[i])
		}
	}
}
