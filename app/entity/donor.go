package entity

import "time"

type Donor struct {
	ID uint64

	Email string
	Name  *string

	PlaceholderIdentity bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
