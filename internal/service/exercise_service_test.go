package service

import (
	"context"
	"testing"

	"fitstudio/server/internal/domain"
)

func TestExerciseOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	marco := f.register(t, "marco@x.com", domain.RoleTrainer)
	squat := f.exercise(t, dani, "Squat")
	f.exercise(t, dani, "Lunge")
	f.exercise(t, marco, "Bench")

	list, err := f.exercises.ListExercises(ctx, dani, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "Lunge" {
		t.Fatalf("list = %+v", list)
	}

	_, err = f.exercises.GetExercise(ctx, marco, squat.ID)
	wantErr(t, err, ErrExerciseAccessDenied)
	_, err = f.exercises.UpdateExercise(ctx, marco, squat.ID, domain.ExercisePatch{Name: ptr("Mine")})
	wantErr(t, err, ErrExerciseAccessDenied)

	updated, err := f.exercises.UpdateExercise(ctx, dani, squat.ID, domain.ExercisePatch{VideoURL: ptr("https://v/1")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Squat" || stringOrEmpty(updated.VideoURL) != "https://v/1" {
		t.Fatalf("updated = %+v", updated)
	}
	_, err = f.exercises.UpdateExercise(ctx, dani, squat.ID, domain.ExercisePatch{Name: ptr("")})
	wantErr(t, err, domain.ErrValidation)
}

func TestDeleteExerciseInUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dani := f.register(t, "dani@x.com", domain.RoleTrainer)
	legs := f.workout(t, dani, "Legs")
	squat := f.exercise(t, dani, "Squat")
	entry, err := f.workouts.AddExercise(ctx, dani, legs.ID, domain.WorkoutExercise{ExerciseID: squat.ID, Order: 1})
	if err != nil {
		t.Fatal(err)
	}

	wantErr(t, f.exercises.DeleteExercise(ctx, dani, squat.ID), ErrExerciseInUse)

	if err := f.workouts.RemoveExercise(ctx, dani, legs.ID, entry.ID); err != nil {
		t.Fatalf("RemoveExercise: %v", err)
	}
	if err := f.exercises.DeleteExercise(ctx, dani, squat.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	_, err = f.exercises.GetExercise(ctx, dani, squat.ID)
	wantErr(t, err, ErrExerciseNotFound)
}
