package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository/memory"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	clock := service.SystemClock
	store := memory.NewStore(nil)
	svc := Services{
		Auth:      service.NewAuthService(store, service.TokenConfig{Secret: "test-secret", Expiration: time.Hour}, clock, log),
		Users:     service.NewUserService(store, log),
		Workouts:  service.NewWorkoutService(store, clock, log),
		Exercises: service.NewExerciseService(store, log),
		Sessions:  service.NewSessionService(store, time.UTC, log),
		Payments:  service.NewPaymentService(store, clock, log),
		Progress:  service.NewProgressService(store, clock, log),
		Dashboard: service.NewDashboardService(store, clock, time.UTC, log),
	}
	router := NewRouter(log, nil)
	SetupRoutes(router, svc, time.UTC)
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and logs in, returning the user id and token.
func (s *testServer) signup(t *testing.T, username string, role domain.Role) (int64, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "secret123",
		"name":     username,
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var resp LoginResponse
	decode(t, w, &resp)
	return resp.User.ID, resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	expectStatus(t, w, http.StatusOK)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q", got)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/dashboard", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/dashboard", "not-a-jwt", nil), http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusUnauthorized)

	id, token := s.signup(t, "dani@x.com", domain.RoleTrainer)
	w = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	expectStatus(t, w, http.StatusOK)
	var me domain.User
	decode(t, w, &me)
	if me.ID != id || me.Role != domain.RoleTrainer {
		t.Fatalf("me = %+v", me)
	}
}

func TestRegisterAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "ana@x.com", domain.RoleStudent)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "ana@x.com", "password": "secret123", "name": "Ana",
	})
	expectStatus(t, w, http.StatusConflict)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "ana@x.com", "password": "wrong-password",
	})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "x"})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestRoleGating(t *testing.T) {
	s := newTestServer(t)
	_, trainer := s.signup(t, "dani@x.com", domain.RoleTrainer)
	_, student := s.signup(t, "ana@x.com", domain.RoleStudent)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
	}{
		{"student lists students", http.MethodGet, "/api/v1/students", student, nil},
		{"student creates workout", http.MethodPost, "/api/v1/workouts", student, gin.H{
			"title": "Legs", "level": "basic", "durationMinutes": 30, "category": "lower",
		}},
		{"student lists exercises", http.MethodGet, "/api/v1/exercises", student, nil},
		{"student creates payment", http.MethodPost, "/api/v1/payments", student, gin.H{}},
		{"student updates payment", http.MethodPatch, "/api/v1/payments/1", student, gin.H{"status": "paid"}},
		{"student cancels session", http.MethodPost, "/api/v1/schedule/1/cancel", student, nil},
		{"trainer records progress", http.MethodPost, "/api/v1/progress", trainer, gin.H{"weightGrams": 70000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, s.do(t, tt.method, tt.path, tt.token, tt.body), http.StatusForbidden)
		})
	}
}

func TestWorkoutGrantFlow(t *testing.T) {
	s := newTestServer(t)
	daniID, dani := s.signup(t, "dani@x.com", domain.RoleTrainer)
	anaID, ana := s.signup(t, "ana@x.com", domain.RoleStudent)
	_, other := s.signup(t, "bia@x.com", domain.RoleStudent)

	w := s.do(t, http.MethodPost, "/api/v1/workouts", dani, gin.H{
		"title":           "Legs",
		"level":           "intermediate",
		"durationMinutes": 45,
		"category":        "lower",
		"trainerId":       999,
	})
	expectStatus(t, w, http.StatusCreated)
	var workout domain.Workout
	decode(t, w, &workout)
	if workout.TrainerID != daniID {
		t.Fatalf("trainerId = %d, want %d", workout.TrainerID, daniID)
	}
	workoutPath := fmt.Sprintf("/api/v1/workouts/%d", workout.ID)

	// Not yet assigned.
	expectStatus(t, s.do(t, http.MethodGet, workoutPath, ana, nil), http.StatusForbidden)

	expectStatus(t, s.do(t, http.MethodPost, workoutPath+"/assign", dani, gin.H{"studentId": anaID}), http.StatusCreated)
	expectStatus(t, s.do(t, http.MethodPost, workoutPath+"/assign", dani, gin.H{"studentId": anaID}), http.StatusConflict)

	expectStatus(t, s.do(t, http.MethodGet, workoutPath, ana, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, workoutPath, other, nil), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/workouts/9999", other, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/workouts/abc", ana, nil), http.StatusNotFound)

	w = s.do(t, http.MethodPost, workoutPath+"/complete", ana, nil)
	expectStatus(t, w, http.StatusOK)
	var assignment domain.StudentWorkout
	decode(t, w, &assignment)
	if !assignment.Completed || assignment.CompletedAt == nil {
		t.Fatalf("assignment not completed: %+v", assignment)
	}

	expectStatus(t, s.do(t, http.MethodPost, workoutPath+"/complete", other, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodPost, workoutPath+"/complete", dani, nil), http.StatusBadRequest)
}

func TestWorkoutExercisesOrdered(t *testing.T) {
	s := newTestServer(t)
	_, dani := s.signup(t, "dani@x.com", domain.RoleTrainer)

	w := s.do(t, http.MethodPost, "/api/v1/workouts", dani, gin.H{
		"title": "Push", "level": "basic", "durationMinutes": 30, "category": "upper",
	})
	expectStatus(t, w, http.StatusCreated)
	var workout domain.Workout
	decode(t, w, &workout)

	w = s.do(t, http.MethodPost, "/api/v1/exercises", dani, gin.H{"name": "Bench press", "category": "chest"})
	expectStatus(t, w, http.StatusCreated)
	var exercise domain.Exercise
	decode(t, w, &exercise)

	path := fmt.Sprintf("/api/v1/workouts/%d/exercises", workout.ID)
	for _, order := range []int{30, 10, 20} {
		expectStatus(t, s.do(t, http.MethodPost, path, dani, gin.H{"exerciseId": exercise.ID, "order": order}), http.StatusCreated)
	}
	expectStatus(t, s.do(t, http.MethodPost, path, dani, gin.H{"exerciseId": exercise.ID, "order": 10}), http.StatusConflict)

	w = s.do(t, http.MethodGet, path, dani, nil)
	expectStatus(t, w, http.StatusOK)
	var entries []domain.WorkoutExercise
	decode(t, w, &entries)
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, want := range []int{10, 20, 30} {
		if entries[i].Order != want {
			t.Fatalf("entries[%d].Order = %d, want %d", i, entries[i].Order, want)
		}
	}
}

func TestPaymentRevenueFlow(t *testing.T) {
	s := newTestServer(t)
	_, dani := s.signup(t, "dani@x.com", domain.RoleTrainer)
	anaID, ana := s.signup(t, "ana@x.com", domain.RoleStudent)

	w := s.do(t, http.MethodPost, "/api/v1/payments", dani, gin.H{
		"studentId":   anaID,
		"amountCents": 28000,
		"plan":        "Mensal",
		"dueDate":     time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	expectStatus(t, w, http.StatusCreated)
	var payment domain.Payment
	decode(t, w, &payment)
	if payment.Status != domain.PaymentPending || payment.PaidDate != nil {
		t.Fatalf("new payment = %+v", payment)
	}

	revenue := func() int64 {
		t.Helper()
		w := s.do(t, http.MethodGet, "/api/v1/dashboard", dani, nil)
		expectStatus(t, w, http.StatusOK)
		var d service.Dashboard
		decode(t, w, &d)
		if d.Trainer == nil {
			t.Fatalf("trainer dashboard missing: %s", w.Body.String())
		}
		return d.Trainer.MonthlyRevenueCents
	}
	if got := revenue(); got != 0 {
		t.Fatalf("revenue before paying = %d", got)
	}

	path := fmt.Sprintf("/api/v1/payments/%d", payment.ID)
	w = s.do(t, http.MethodPatch, path, dani, gin.H{"status": "paid"})
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &payment)
	if payment.PaidDate == nil {
		t.Fatal("paidDate not set")
	}
	if got := revenue(); got != 28000 {
		t.Fatalf("revenue after paying = %d, want 28000", got)
	}

	w = s.do(t, http.MethodGet, "/api/v1/payments?status=paid", ana, nil)
	expectStatus(t, w, http.StatusOK)
	var mine []domain.Payment
	decode(t, w, &mine)
	if len(mine) != 1 || mine[0].ID != payment.ID {
		t.Fatalf("student payments = %+v", mine)
	}

	today := payment.Date.Format(dateLayout)
	w = s.do(t, http.MethodGet, "/api/v1/payments?from="+today+"&to="+today, dani, nil)
	expectStatus(t, w, http.StatusOK)
	var inRange []domain.Payment
	decode(t, w, &inRange)
	if len(inRange) != 1 {
		t.Fatalf("payments charged today = %d", len(inRange))
	}
	tomorrow := payment.Date.AddDate(0, 0, 1).Format(dateLayout)
	w = s.do(t, http.MethodGet, "/api/v1/payments?from="+tomorrow, dani, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &inRange)
	if len(inRange) != 0 {
		t.Fatalf("payments from tomorrow = %d", len(inRange))
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/payments?from=03/15/2026", dani, nil), http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/payments?studentId=x", dani, nil), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPatch, "/api/v1/payments/9999", dani, gin.H{"status": "paid"}), http.StatusNotFound)
}

func TestScheduleAndProgress(t *testing.T) {
	s := newTestServer(t)
	_, dani := s.signup(t, "dani@x.com", domain.RoleTrainer)
	anaID, ana := s.signup(t, "ana@x.com", domain.RoleStudent)

	day := time.Now().UTC().Add(48 * time.Hour)
	w := s.do(t, http.MethodPost, "/api/v1/schedule", dani, gin.H{
		"title":           "Mobility",
		"date":            day.Format(time.RFC3339),
		"time":            "09:00",
		"durationMinutes": 60,
		"studentId":       anaID,
	})
	expectStatus(t, w, http.StatusCreated)
	var session domain.Session
	decode(t, w, &session)

	w = s.do(t, http.MethodGet, "/api/v1/schedule?date="+day.Format(dateLayout), ana, nil)
	expectStatus(t, w, http.StatusOK)
	var sessions []domain.Session
	decode(t, w, &sessions)
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Fatalf("student schedule = %+v", sessions)
	}
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/schedule?date=tomorrow", ana, nil), http.StatusBadRequest)

	path := fmt.Sprintf("/api/v1/schedule/%d", session.ID)
	w = s.do(t, http.MethodPost, path+"/cancel", dani, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &session)
	if session.Status != domain.SessionCanceled {
		t.Fatalf("status = %s", session.Status)
	}
	expectStatus(t, s.do(t, http.MethodPost, path+"/complete", dani, nil), http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodPost, "/api/v1/progress", ana, gin.H{"weightGrams": 61500}), http.StatusCreated)

	w = s.do(t, http.MethodGet, "/api/v1/progress", ana, nil)
	expectStatus(t, w, http.StatusOK)
	var entries []domain.Progress
	decode(t, w, &entries)
	if len(entries) != 1 || entries[0].WeightGrams == nil || *entries[0].WeightGrams != 61500 {
		t.Fatalf("progress = %+v", entries)
	}

	// The private session links dani to ana.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/progress?studentId=%d", anaID), dani, nil)
	expectStatus(t, w, http.StatusOK)
	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/progress", dani, nil), http.StatusBadRequest)
}
