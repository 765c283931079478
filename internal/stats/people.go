package stats

import (
	"fitstudio/server/internal/domain"
)

// CountStudents counts users with the student role.
func CountStudents(users []domain.User) int {
	n := 0
	for _, u := range users {
		if u.IsStudent() {
			n++
		}
	}
	return n
}

// CountActiveStudents counts active students. Users carry no status, so
// every student is active.
func CountActiveStudents(users []domain.User) int {
	return CountStudents(users)
}
