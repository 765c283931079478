package stats

import (
	"cmp"
	"slices"
	"time"

	"fitstudio/server/internal/domain"
)

// MonthRevenue is one bar of the revenue chart.
type MonthRevenue struct {
	Month       string    `json:"month"` // "2006-01"
	Start       time.Time `json:"start"`
	AmountCents int64     `json:"amountCents"`
}

// Revenue sums the paid amounts of trainerID whose charge date falls inside
// w. The charge date decides the month, not when the payment was settled.
func Revenue(payments []domain.Payment, trainerID int64, w Window) int64 {
	var total int64
	for _, p := range payments {
		if p.TrainerID != trainerID || p.Status != domain.PaymentPaid {
			continue
		}
		if w.Contains(p.Date) {
			total += p.AmountCents
		}
	}
	return total
}

// RevenueChart returns paid revenue for the last months calendar months
// ending with the month containing now, oldest first.
func RevenueChart(payments []domain.Payment, trainerID int64, now time.Time, loc *time.Location, months int) []MonthRevenue {
	if months <= 0 {
		return nil
	}
	current := MonthWindow(now, loc)
	out := make([]MonthRevenue, months)
	for i := range out {
		start := current.From.AddDate(0, i-(months-1), 0)
		w := Window{From: start, To: start.AddDate(0, 1, 0)}
		out[i] = MonthRevenue{
			Month:       start.Format("2006-01"),
			Start:       start,
			AmountCents: Revenue(payments, trainerID, w),
		}
	}
	return out
}

// SortPaymentsDesc sorts payments in place, newest charge first.
func SortPaymentsDesc(payments []domain.Payment) {
	slices.SortFunc(payments, func(a, b domain.Payment) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// SortProgressDesc sorts progress entries in place, newest first.
func SortProgressDesc(entries []domain.Progress) {
	slices.SortFunc(entries, func(a, b domain.Progress) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
