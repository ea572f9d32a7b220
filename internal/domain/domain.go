// Package domain holds the plain data types that flow through the
// scheduling pipeline: orders and machine facts read from the store,
// the candidate tasks the expander produces, and the two output tables
// the extractor produces.
package domain

import "time"

// Horizon is the fixed planning window, in seconds, used to bound every
// interval variable: roughly half a year (183 days) after the run's
// captured "now".
const Horizon int64 = 15_778_800

// Priority codes as they arrive on an Order, before adjustment.
const (
	PriorityUnset           = 0
	PriorityEmergency       = 1
	PriorityRunning         = 2
	PriorityAsapNoInterrupt = 3
	PriorityMustMeet        = 4
	PriorityNormal          = 5
	PriorityNormalDefault   = 6
	PriorityStockFill       = 7
)

// InfoCode classifies a ScheduledOrder for downstream consumers.
type InfoCode int

const (
	InfoNormal InfoCode = iota
	InfoImpossibleDeadline
	InfoPastDue
)

// PrepKind distinguishes the two preparation-interval types.
type PrepKind string

const (
	PrepKindNone    PrepKind = ""
	PrepKindOmbouw  PrepKind = "ombouw"
	PrepKindOmbouw2 PrepKind = "ombouw2"
)

// Order is a production request read from the input store.
type Order struct {
	ID           string
	Subseries    string
	Description  string
	Quantity     int64
	IMLRequested bool
	DueDate      time.Time
	RawPriority  int
	MoldName     string
	HotRunner    string
	InfoMessages []string
}

// MachineCapability describes running a subseries on a machine.
type MachineCapability struct {
	Subseries      string
	Machine        string
	IMLPossible    bool
	Cavity         int64
	CycleAvgSecond float64
}

// MachineMaintenanceWindow is a fixed unavailability window on a machine.
type MachineMaintenanceWindow struct {
	Machine string
	Start   time.Time
	End     time.Time
}

// TechnicianAvailabilityChange records a day with fewer than the default
// number of changeover technicians available.
type TechnicianAvailabilityChange struct {
	Date      time.Time
	Available int64
}

// SubseriesBlackout is a window during which a subseries cannot run.
type SubseriesBlackout struct {
	Subseries string
	Start     time.Time
	End       time.Time
}

// AvailableWeekendDay marks a weekend day that is production-allowed on a
// machine; every weekend day not present here is forbidden.
type AvailableWeekendDay struct {
	Machine string
	Date    time.Time
}

// CandidateTask is one (order, machine, IML-variant) option the expander
// emits; the solver must choose exactly one candidate per order.
type CandidateTask struct {
	ID                 string
	OrderID            string
	Subseries          string
	Machine            string
	IMLPossible         bool
	DurationSeconds    int64
	DefaultsUsed       bool
	DueDate            time.Time
	IsPastDue          bool
	IsImpossibleDeadline bool
	AdjustedPriority   int
	Description        string
	MoldName           string
	HotRunner          string
}

// ScheduledOrder is one output row: the chosen (order, machine) placement.
type ScheduledOrder struct {
	OrderID        string
	Machine        string
	Start          time.Time
	End            time.Time
	DurationHours  float64
	IMLPossible    bool
	InfoCode       InfoCode
	WeekendsInside []time.Time
}

// PreparationInterval is one induced changeover between two consecutive
// chosen tasks on the same machine.
type PreparationInterval struct {
	Machine     string
	Start       time.Time
	End         time.Time
	Kind        PrepKind
	Reason      string
	FromMold    string
	ToMold      string
	FromDesc    string
	ToDesc      string
}
