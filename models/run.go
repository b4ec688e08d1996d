package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun records one batch pass over a region's page range.
type ScrapeRun struct {
	ID           uuid.UUID  `json:"id"`
	Region       string     `json:"region"`
	StartPage    int        `json:"start_page"`
	EndPage      int        `json:"end_page"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	Status       RunStatus  `json:"status"`
	PagesFetched int        `json:"pages_fetched"`
	LinksFound   int        `json:"links_found"`
	RowsKept     int        `json:"rows_kept"`
	Skipped      int        `json:"skipped"`
	Excluded     int        `json:"excluded"`
}

func (r *ScrapeRun) Summary() string {
	return fmt.Sprintf("run %s: %d pages, %d links, %d rows kept, %d skipped, %d excluded",
		r.ID, r.PagesFetched, r.LinksFound, r.RowsKept, r.Skipped, r.Excluded)
}
