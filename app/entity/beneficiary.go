package entity

import "time"

type Project struct {
	ID uint64

	Name string

	CreatedAt time.Time
}

type Child struct {
	ID uint64

	Name string

	CreatedAt time.Time
}

type Sponsorship struct {
	ID uint64

	DonorID uint64
	ChildID uint64

	CreatedAt time.Time
}

type Invoice struct {
	ID uint64

	GatewayInvoiceID string

	CreatedAt time.Time
}
