package domain

import "gorm.io/datatypes"

// Clone methods return copies that share no pointers or maps with the
// receiver. The in-memory store hands these out so callers cannot write
// through to stored rows.

func (u *User) Clone() *User {
	c := *u
	c.ProfilePicture = clonePtr(u.ProfilePicture)
	c.Phone = clonePtr(u.Phone)
	return &c
}

func (w *Workout) Clone() *Workout {
	c := *w
	c.Description = clonePtr(w.Description)
	c.Image = clonePtr(w.Image)
	return &c
}

func (a *StudentWorkout) Clone() *StudentWorkout {
	c := *a
	c.CompletedAt = clonePtr(a.CompletedAt)
	return &c
}

func (e *Exercise) Clone() *Exercise {
	c := *e
	c.Description = clonePtr(e.Description)
	c.VideoURL = clonePtr(e.VideoURL)
	return &c
}

func (e *WorkoutExercise) Clone() *WorkoutExercise {
	c := *e
	c.Sets = clonePtr(e.Sets)
	c.Reps = clonePtr(e.Reps)
	c.TimeSeconds = clonePtr(e.TimeSeconds)
	c.RestSeconds = clonePtr(e.RestSeconds)
	c.Notes = clonePtr(e.Notes)
	return &c
}

func (s *Session) Clone() *Session {
	c := *s
	c.Description = clonePtr(s.Description)
	c.StudentID = clonePtr(s.StudentID)
	c.GroupSize = clonePtr(s.GroupSize)
	c.Notes = clonePtr(s.Notes)
	return &c
}

func (p *Payment) Clone() *Payment {
	c := *p
	c.PaidDate = clonePtr(p.PaidDate)
	c.Reference = clonePtr(p.Reference)
	c.Method = clonePtr(p.Method)
	c.Metadata = cloneJSONMap(p.Metadata)
	return &c
}

func (p *Progress) Clone() *Progress {
	c := *p
	c.WeightGrams = clonePtr(p.WeightGrams)
	c.BodyFatBasisPoints = clonePtr(p.BodyFatBasisPoints)
	c.Measurements = cloneJSONMap(p.Measurements)
	c.Notes = clonePtr(p.Notes)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneJSONMap(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = cloneJSONValue(v)
	}
	return out
}

// cloneJSONValue copies the container types a decoded JSON document holds.
// Scalars are immutable and returned as is.
func cloneJSONValue(v any) any {
	switch x := v.(type) {
	case datatypes.JSONMap:
		return cloneJSONMap(x)
	case map[string]any:
		return map[string]any(cloneJSONMap(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneJSONValue(e)
		}
		return out
	}
	return v
}
