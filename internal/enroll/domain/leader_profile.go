package domain

import "time"

// LeaderProfile is the extended organizational record for a LEADER-role user.
// One-to-one with the owning user. A LEADER without a profile is legal (e.g.
// invited without a unit); the reverse is prevented at the engine's own
// mutation points.
type LeaderProfile struct {
	ID          string
	UserID      string // unique
	UnitID      string
	Name        string
	YearOfBirth int
	Status      string
	Phone       *string
	Address     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
