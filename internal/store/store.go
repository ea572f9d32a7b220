// Package store defines the read/write interfaces the core pipeline
// depends on for its external collaborators (spec §6.2-§6.4). No
// concrete MongoDB or FileMaker client ships in this module — those are
// deployment-time adapters outside this repository's scope — but the
// package also provides an in-memory fake implementation shared by the
// store and runner tests.
package store

import (
	"context"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/feedback"
)

// OrderStore reads open orders eligible for scheduling.
type OrderStore interface {
	Orders(ctx context.Context) ([]domain.Order, error)
}

// CapabilityStore reads the average-cycle-time / capability table.
type CapabilityStore interface {
	Capabilities(ctx context.Context) ([]domain.MachineCapability, error)
}

// MachineDirectoryStore reads the ERP machine directory (spec §6.3).
type MachineDirectoryStore interface {
	Machines(ctx context.Context) ([]string, error)
}

// MaintenanceStore reads machine maintenance windows.
type MaintenanceStore interface {
	MaintenanceWindows(ctx context.Context) ([]domain.MachineMaintenanceWindow, error)
}

// TechnicianAvailabilityStore reads days with reduced changeover
// technician capacity, already deduplicated per spec §10 (minimum of
// ombouwersBeschikbaar per date wins).
type TechnicianAvailabilityStore interface {
	TechnicianAvailability(ctx context.Context) ([]domain.TechnicianAvailabilityChange, error)
}

// WeekendStore reads production-allowed weekend days, already expanded
// per spec §10 (a duration=2 row yields two consecutive dates).
type WeekendStore interface {
	AvailableWeekendDays(ctx context.Context) ([]domain.AvailableWeekendDay, error)
}

// BlackoutStore reads subseries blackout windows, already filtered per
// spec §10 (rows whose endDate is already in the past are discarded).
type BlackoutStore interface {
	SubseriesBlackouts(ctx context.Context) ([]domain.SubseriesBlackout, error)
}

// PlanningWriter replaces the output collection with one run's results
// (spec §6.4): all existing rows are deleted, then the new rows written.
type PlanningWriter interface {
	ReplacePlanning(ctx context.Context, scheduled []domain.ScheduledOrder, preparations []domain.PreparationInterval) error
}

// LogWriter appends one run's hierarchical log document and trims the
// collection to the retention count afterward (spec §6.5).
type LogWriter interface {
	WriteLog(ctx context.Context, tree *feedback.Tree, retentionCount int) error
}

// FeedbackWriter replaces the user_feedback document with one run's
// messages (spec §6.5): previous contents deleted before insert.
type FeedbackWriter interface {
	WriteFeedback(ctx context.Context, messages map[string]string) error
}

// Store aggregates every collaborator the pipeline needs for one run.
type Store interface {
	OrderStore
	CapabilityStore
	MachineDirectoryStore
	MaintenanceStore
	TechnicianAvailabilityStore
	WeekendStore
	BlackoutStore
	PlanningWriter
	LogWriter
	FeedbackWriter
}
