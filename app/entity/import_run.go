package entity

import "time"

type ImportRun struct {
	ID uint64

	PublicID string
	Profile  string

	RowsTotal           int32
	SucceededCount      int32
	FailedCount         int32
	NeedsAttentionCount int32
	SkippedCount        int32

	ErrorsJSON string

	StartedAt  time.Time
	FinishedAt time.Time
}
