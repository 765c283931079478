package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus tracks whether a charge has been settled.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentCanceled PaymentStatus = "canceled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCanceled:
		return true
	}
	return false
}

// Payment is a charge a trainer issues to a student. Amounts are integer cents.
type Payment struct {
	ID          int64             `bson:"_id" json:"id" gorm:"primaryKey"`
	StudentID   int64             `bson:"studentId" json:"studentId" gorm:"not null;index"`
	TrainerID   int64             `bson:"trainerId" json:"trainerId" gorm:"not null;index"`
	AmountCents int64             `bson:"amountCents" json:"amountCents" gorm:"not null"`
	Plan        string            `bson:"plan" json:"plan" gorm:"not null"` // "Mensal", "Trimestral", "Semestral", "Anual"
	Status      PaymentStatus     `bson:"status" json:"status" gorm:"not null;index"`
	Date        time.Time         `bson:"date" json:"date"`
	DueDate     time.Time         `bson:"dueDate" json:"dueDate" gorm:"not null"`
	PaidDate    *time.Time        `bson:"paidDate,omitempty" json:"paidDate,omitempty"`
	Reference   *string           `bson:"reference,omitempty" json:"reference,omitempty"` // e.g. invoice number
	Method      *string           `bson:"method,omitempty" json:"method,omitempty"`       // "credit_card", "bank_transfer", "cash"
	Metadata    datatypes.JSONMap `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) GetID() int64   { return p.ID }
func (p *Payment) SetID(id int64) { p.ID = id }

func (p *Payment) ApplyDefaults(now time.Time) {
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if p.Date.IsZero() {
		p.Date = now
	}
}
