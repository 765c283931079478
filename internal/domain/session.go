package domain

import (
	"time"
)

// SessionStatus tracks the lifecycle of a scheduled session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCanceled  SessionStatus = "canceled"
)

// Session is a scheduled appointment owned by a trainer. A nil StudentID
// marks a group session.
type Session struct {
	ID              int64         `bson:"_id" json:"id" gorm:"primaryKey"`
	Title           string        `bson:"title" json:"title" gorm:"not null"`
	Description     *string       `bson:"description,omitempty" json:"description,omitempty"`
	Date            time.Time     `bson:"date" json:"date" gorm:"not null;index"`
	Time            string        `bson:"time" json:"time" gorm:"not null"` // "HH:MM", display only
	DurationMinutes int           `bson:"durationMinutes" json:"durationMinutes" gorm:"not null"`
	Type            string        `bson:"type" json:"type" gorm:"not null"` // "training", "evaluation", "consultation", "group"
	TrainerID       int64         `bson:"trainerId" json:"trainerId" gorm:"not null;index"`
	StudentID       *int64        `bson:"studentId" json:"studentId" gorm:"index"`
	IsGroup         bool          `bson:"isGroup" json:"isGroup"`
	GroupSize       *int          `bson:"groupSize,omitempty" json:"groupSize,omitempty"`
	Status          SessionStatus `bson:"status" json:"status" gorm:"not null"`
	Notes           *string       `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) GetID() int64   { return s.ID }
func (s *Session) SetID(id int64) { s.ID = id }

func (s *Session) ApplyDefaults(time.Time) {
	if s.Status == "" {
		s.Status = SessionScheduled
	}
}

// IsOpenGroup reports whether any student may see the session.
func (s *Session) IsOpenGroup() bool {
	return s.StudentID == nil && s.IsGroup
}

// SessionPatch carries the mutable session fields. Status changes go through
// the dedicated cancel/complete operations.
type SessionPatch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Time            *string    `json:"time,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Type            *string    `json:"type,omitempty"`
	GroupSize       *int       `json:"groupSize,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (p SessionPatch) Apply(s *Session) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = p.Description
	}
	if p.Date != nil {
		s.Date = p.Date.UTC()
	}
	if p.Time != nil {
		s.Time = *p.Time
	}
	if p.DurationMinutes != nil {
		s.DurationMinutes = *p.DurationMinutes
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.GroupSize != nil {
		s.GroupSize = p.GroupSize
	}
	if p.Notes != nil {
		s.Notes = p.Notes
	}
}
