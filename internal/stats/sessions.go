package stats

import (
	"cmp"
	"slices"
	"time"

	"fitstudio/server/internal/domain"
)

// compareSessions orders by date, then display time, then id.
func compareSessions(a, b domain.Session) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// isUpcoming reports whether s is scheduled within [now, now+UpcomingHorizon].
func isUpcoming(s domain.Session, now time.Time) bool {
	if s.Status != domain.SessionScheduled {
		return false
	}
	return !s.Date.Before(now) && !s.Date.After(now.Add(UpcomingHorizon))
}

// UpcomingSessionsCount counts trainerID's scheduled sessions dated within the
// next seven days, now included.
func UpcomingSessionsCount(sessions []domain.Session, trainerID int64, now time.Time) int {
	n := 0
	for _, s := range sessions {
		if s.TrainerID == trainerID && isUpcoming(s, now) {
			n++
		}
	}
	return n
}

// UpcomingSessions returns the upcoming sessions among an already scoped set,
// soonest first. A limit <= 0 returns all of them.
func UpcomingSessions(sessions []domain.Session, now time.Time, limit int) []domain.Session {
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if isUpcoming(s, now) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, compareSessions)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterSessions returns the sessions dated inside w in ascending order.
func FilterSessions(sessions []domain.Session, w Window) []domain.Session {
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, compareSessions)
	return out
}

// SortSessionsAsc sorts sessions in place, earliest first.
func SortSessionsAsc(sessions []domain.Session) {
	slices.SortFunc(sessions, compareSessions)
}
