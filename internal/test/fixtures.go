// Package test provides shared fixtures for the runner's test suites: a default RunSettings, a ready-to-use Fake store, and one
// constructor per concrete scenario of spec §8 — the way the teacher's
// own pkg/test package seeds a shared envtest environment and settings
// object for every controller suite.
package test

import (
	"time"

	"github.com/deca-be/ml-scheduler/internal/config"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/store"
)

// Settings returns a valid RunSettings for tests: the hardcoded defaults
// plus the external credentials validation requires but no test cares
// about the value of.
func Settings() config.RunSettings {
	s := config.Default
	s.MaxSolveDuration = 2 * time.Second
	s.SolverWorkers = 1
	s.MongoURI = "mongodb://localhost/test"
	s.FilemakerUsername = "test"
	s.FilemakerPassword = "test"
	return s
}

// Now anchors every scenario below at a fixed Monday so weekend-day
// arithmetic is deterministic across runs.
func Now() time.Time {
	return time.Date(2026, 7, 27, 9, 0, 0, 0, time.UTC)
}

// Scenario1SingleOrderSingleMachine is testable property 1: one order
// with exactly one capable machine and nothing else in play.
func Scenario1SingleOrderSingleMachine() *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormalDefault},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
	}
	return f
}

// Scenario2IMLSwap is testable property 2: two orders on the same
// subseries and machine, differing only in their IML requirement, which
// must induce an "ombouw2" changeover between them.
func Scenario2IMLSwap() *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormalDefault},
		{ID: "order-2", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormalDefault, IMLRequested: true},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10, IMLPossible: true},
	}
	return f
}

// Scenario3SubseriesSwapUnderDeficit is testable property 3: two orders
// on differing subseries (a full "ombouw" swap) while the changeover
// technician count is reduced on the day the swap would naturally fall.
func Scenario3SubseriesSwapUnderDeficit(now time.Time) *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormalDefault},
		{ID: "order-2", Subseries: "B2", Quantity: 400, RawPriority: domain.PriorityNormalDefault},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
		{Subseries: "B2", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
	}
	f.TechnicianRows = []domain.TechnicianAvailabilityChange{
		{Date: now.AddDate(0, 0, 1), Available: 1},
	}
	return f
}

// Scenario4ForbiddenWeekendInside is testable property: a long order
// whose natural placement spans a forbidden weekend day on its machine,
// requiring the end to be pushed out by a full day per forbidden day.
func Scenario4ForbiddenWeekendInside() *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 40000, RawPriority: domain.PriorityNormalDefault},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
	}
	return f
}

// Scenario5PastDueNormal is testable property 5: a normal-priority order
// whose due date has already passed, which must carry InfoPastDue and the
// higher of the two Normal deadline-slack weights.
func Scenario5PastDueNormal(now time.Time) *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormal, DueDate: now.Add(-24 * time.Hour)},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
	}
	return f
}

// Scenario6EmergencyCoResidentWithRunning is testable property 6: an
// emergency order and a running order sharing a machine, where the
// running order's start is exempted from the forced start=0 rule because
// an emergency task is also present on that machine.
func Scenario6EmergencyCoResidentWithRunning() *store.Fake {
	f := store.NewFake()
	f.OrderRows = []domain.Order{
		{ID: "order-1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityEmergency},
		{ID: "order-2", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityRunning},
	}
	f.CapabilityRows = []domain.MachineCapability{
		{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
	}
	return f
}
