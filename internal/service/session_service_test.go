package service

import (
	"context"
	"testing"
	"time"

	"fitstudio/server/internal/domain"
)

func newSession(at time.Time, studentID *int64) domain.Session {
	return domain.Session{
		Title:           "Treino",
		Date:            at,
		Time:            at.Format("15:04"),
		DurationMinutes: 60,
		StudentID:       studentID,
	}
}

func TestCreateSessionGroupRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	ana := f.register(t, "ana@x.com", domain.RoleStudent)

	group, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(time.Hour), nil))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !group.IsGroup || group.Status != domain.SessionScheduled || group.TrainerID != dani.ID {
		t.Fatalf("group session = %+v", group)
	}

	bad := newSession(t0.Add(time.Hour), &ana.ID)
	bad.IsGroup = true
	_, err = f.sessions.CreateSession(ctx, dani, bad)
	wantErr(t, err, domain.ErrValidation)

	_, err = f.sessions.CreateSession(ctx, dani, newSession(t0, &dani.ID))
	wantErr(t, err, ErrStudentReference)

	badTime := newSession(t0, nil)
	badTime.Time = "25:99"
	_, err = f.sessions.CreateSession(ctx, dani, badTime)
	wantErr(t, err, domain.ErrValidation)

	_, err = f.sessions.CreateSession(ctx, ana, newSession(t0, nil))
	wantErr(t, err, ErrTrainerOnly)
}

func TestSessionVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	ana := f.register(t, "ana@x.com", domain.RoleStudent)
	bia := f.register(t, "bia@x.com", domain.RoleStudent)

	private, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(2*time.Hour), &ana.ID))
	if err != nil {
		t.Fatal(err)
	}
	group, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(time.Hour), nil))
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.sessions.GetSession(ctx, bia, private.ID)
	wantErr(t, err, ErrSessionAccessDenied)
	if _, err := f.sessions.GetSession(ctx, bia, group.ID); err != nil {
		t.Fatalf("group session should be visible: %v", err)
	}

	list, err := f.sessions.ListSessions(ctx, ana, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != group.ID {
		t.Fatalf("ana sees %+v", list)
	}
	list, err = f.sessions.ListSessions(ctx, bia, nil)
	if err != nil || len(list) != 1 {
		t.Fatalf("bia sees %v, %v", list, err)
	}
}

func TestListSessionsByDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)

	for _, at := range []time.Time{
		t0.Add(6 * time.Hour),
		t0.Add(-2 * time.Hour),
		t0.Add(24 * time.Hour),
	} {
		if _, err := f.sessions.CreateSession(ctx, dani, newSession(at, nil)); err != nil {
			t.Fatal(err)
		}
	}
	day := t0
	list, err := f.sessions.ListSessions(ctx, dani, &day)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions today", len(list))
	}
	if !list[0].Date.Before(list[1].Date) {
		t.Fatal("sessions not ascending")
	}
}

func TestCancelAndCompleteSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	ana := f.register(t, "ana@x.com", domain.RoleStudent)
	s, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(time.Hour), &ana.ID))
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.sessions.CancelSession(ctx, ana, s.ID)
	wantErr(t, err, ErrSessionAccessDenied)

	canceled, err := f.sessions.CancelSession(ctx, dani, s.ID)
	if err != nil || canceled.Status != domain.SessionCanceled {
		t.Fatalf("CancelSession = %+v, %v", canceled, err)
	}
	again, err := f.sessions.CancelSession(ctx, dani, s.ID)
	if err != nil || again.Status != domain.SessionCanceled {
		t.Fatalf("double cancel = %+v, %v", again, err)
	}
	_, err = f.sessions.CompleteSession(ctx, dani, s.ID)
	wantErr(t, err, ErrSessionCanceled)

	other, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(time.Hour), nil))
	if err != nil {
		t.Fatal(err)
	}
	done, err := f.sessions.CompleteSession(ctx, dani, other.ID)
	if err != nil || done.Status != domain.SessionCompleted {
		t.Fatalf("CompleteSession = %+v, %v", done, err)
	}
}

func TestUpdateSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	s, err := f.sessions.CreateSession(ctx, dani, newSession(t0.Add(time.Hour), nil))
	if err != nil {
		t.Fatal(err)
	}
	moved := t0.Add(48 * time.Hour)
	updated, err := f.sessions.UpdateSession(ctx, dani, s.ID, domain.SessionPatch{Date: &moved, Notes: ptr("bring mat")})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Date.Equal(moved) || stringOrEmpty(updated.Notes) != "bring mat" || updated.Status != domain.SessionScheduled {
		t.Fatalf("updated = %+v", updated)
	}
	_, err = f.sessions.UpdateSession(ctx, dani, s.ID, domain.SessionPatch{DurationMinutes: ptr(0)})
	wantErr(t, err, domain.ErrValidation)
}
