package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Progress is a self-reported body measurement entry. Weight is in grams and
// body fat in basis points (20.5% is 2050).
type Progress struct {
	ID                 int64             `bson:"_id" json:"id" gorm:"primaryKey"`
	StudentID          int64             `bson:"studentId" json:"studentId" gorm:"not null;index"`
	Date               time.Time         `bson:"date" json:"date" gorm:"index"`
	WeightGrams        *int64            `bson:"weightGrams,omitempty" json:"weightGrams,omitempty"`
	BodyFatBasisPoints *int              `bson:"bodyFatBasisPoints,omitempty" json:"bodyFatBasisPoints,omitempty"`
	Measurements       datatypes.JSONMap `bson:"measurements,omitempty" json:"measurements,omitempty"`
	Notes              *string           `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (Progress) TableName() string { return "progress" }

func (p *Progress) GetID() int64   { return p.ID }
func (p *Progress) SetID(id int64) { p.ID = id }

func (p *Progress) ApplyDefaults(now time.Time) {
	if p.Date.IsZero() {
		p.Date = now
	}
}
