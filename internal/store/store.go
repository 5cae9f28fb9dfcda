package store

import (
	"context"
	"errors"

	"github.com/joescharf/prr/internal/models"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// ReportListFilter specifies filters for listing report history.
type ReportListFilter struct {
	Project string
	Limit   int
}

// Store defines the persistence interface for generated report history.
type Store interface {
	CreateReport(ctx context.Context, r *models.ReportRecord) error
	GetReport(ctx context.Context, id string) (*models.ReportRecord, error)
	ListReports(ctx context.Context, filter ReportListFilter) ([]*models.ReportRecord, error)
	DeleteReport(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
