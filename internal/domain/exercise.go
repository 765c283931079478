// internal/domain/exercise.go
package domain

// Exercise represents a single exercise definition in a trainer's library.
type Exercise struct {
	ID          int64   `bson:"_id" json:"id" gorm:"primaryKey"`
	Name        string  `bson:"name" json:"name" gorm:"not null"`
	Description *string `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL    *string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"` // Optional link to an example video
	Category    string  `bson:"category" json:"category" gorm:"not null"`     // "legs", "arms", "chest", "back", "core", "cardio"
	TrainerID   int64   `bson:"trainerId" json:"trainerId" gorm:"not null;index"`
}

func (Exercise) TableName() string { return "exercises" }

func (e *Exercise) GetID() int64   { return e.ID }
func (e *Exercise) SetID(id int64) { e.ID = id }

// ExercisePatch carries the mutable exercise fields.
type ExercisePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	VideoURL    *string `json:"videoUrl,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (p ExercisePatch) Apply(e *Exercise) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.VideoURL != nil {
		e.VideoURL = p.VideoURL
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
}
