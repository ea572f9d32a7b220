// Package config loads the environment- and caller-supplied knobs for one
// scheduling run, following the teacher's context-injected settings
// pattern: parse once, validate with struct tags, merge onto hardcoded
// defaults, and panic only on a malformed required value (a deployment
// error, never a per-run error).
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"go.uber.org/multierr"
)

type contextKey struct{}

// RunSettings are the knobs one CalculatePlanning run is driven by.
type RunSettings struct {
	MaxSolveDuration           time.Duration `validate:"required,gt=0"`
	SolverWorkers              int           `validate:"required,gt=0"`
	DefaultCavity              int64         `validate:"required,gt=0"`
	DefaultCycleAverageSeconds float64       `validate:"required,gt=0"`
	DefaultOmbouwersAvailable  int64         `validate:"required,gt=0"`
	LogRetentionCount          int           `validate:"required,gt=0"`
	MongoURI                  string         `validate:"required"`
	FilemakerUsername         string         `validate:"required"`
	FilemakerPassword         string         `validate:"required"`
}

// Default is the hardcoded baseline every run's settings are merged onto.
// The solver worker count is fixed at 4 per the pipeline's concurrency
// model — it is listed here as a default, not read from the environment,
// because it is not meant to be a per-deployment tunable.
var Default = RunSettings{
	MaxSolveDuration:           2 * time.Minute,
	SolverWorkers:              4,
	DefaultCavity:              4,
	DefaultCycleAverageSeconds: 10,
	DefaultOmbouwersAvailable:  3,
	LogRetentionCount:          9,
}

// FromEnvironment loads RunSettings by merging environment variables onto
// Default, then validating the result. It panics on a missing or
// malformed required value: this mirrors the teacher's own
// "failing to parse/validate means there is some error in the Settings,
// so we should crash" stance — a deployment-time error, not a run error.
func FromEnvironment() RunSettings {
	s := Default
	overrides := RunSettings{
		MongoURI:          os.Getenv("MONGODB_URI"),
		FilemakerUsername: os.Getenv("ML_USER_FILEMAKER_USERNAME"),
		FilemakerPassword: os.Getenv("ML_USER_FILEMAKER_PASSWORD"),
	}
	if raw := os.Getenv("ML_MAX_SOLVE_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			panic(fmt.Sprintf("parsing ML_MAX_SOLVE_SECONDS: %v", err))
		}
		overrides.MaxSolveDuration = time.Duration(secs) * time.Second
	}
	if err := mergo.Merge(&s, overrides, mergo.WithOverride); err != nil {
		panic(fmt.Sprintf("merging settings overrides: %v", err))
	}
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("validating settings: %v", err))
	}
	return s
}

// Validate checks every required field is present and sane.
func (s RunSettings) Validate() error {
	validate := validator.New()
	return multierr.Combine(validate.Struct(s))
}

// ToContext stores s as the run's singleton settings.
func ToContext(ctx context.Context, s RunSettings) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the settings stored by ToContext. It panics if
// none were stored, matching the teacher's developer-error stance on a
// missing context value.
func FromContext(ctx context.Context) RunSettings {
	v := ctx.Value(contextKey{})
	if v == nil {
		panic("run settings not present in context")
	}
	return v.(RunSettings)
}
