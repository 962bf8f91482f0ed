// Package target computes per-agent achievement against fixed
// department goals.
package target

import (
	"math"

	"github.com/rotisserie/eris"
)

// Metric names the quantity a target measures.
type Metric string

const (
	MetricDuration Metric = "duration_seconds"
	MetricAttempts Metric = "attempts"
	MetricUnique   Metric = "unique_contacts"
)

// DepartmentTargets holds one department's fixed goals. Targets are
// configuration data, never computed.
type DepartmentTargets struct {
	DurationSeconds int
	Attempts        int
	Unique          int
}

// Validate rejects zero or negative targets. A bad target is an
// internal inconsistency and must abort the run before any division.
func (d DepartmentTargets) Validate() error {
	if d.DurationSeconds <= 0 {
		return eris.Errorf("target: duration target must be positive, got %d", d.DurationSeconds)
	}
	if d.Attempts <= 0 {
		return eris.Errorf("target: attempts target must be positive, got %d", d.Attempts)
	}
	if d.Unique <= 0 {
		return eris.Errorf("target: unique target must be positive, got %d", d.Unique)
	}
	return nil
}

// Targets holds both departments' goals.
type Targets struct {
	Conversion DepartmentTargets
	Retention  DepartmentTargets
}

// Validate checks every configured target.
func (t Targets) Validate() error {
	if err := t.Conversion.Validate(); err != nil {
		return eris.Wrap(err, "target: conversion")
	}
	if err := t.Retention.Validate(); err != nil {
		return eris.Wrap(err, "target: retention")
	}
	return nil
}

// Result is one agent's achievement against one metric's target.
// Percentage is not capped at 100: over-achievement is meaningful.
type Result struct {
	Metric     Metric
	Actual     int
	Target     int
	Percentage float64
}

// Percentage returns actual/target as a percentage. A non-positive
// target fails loudly rather than producing infinity or NaN.
func Percentage(actual, target int) (float64, error) {
	if target <= 0 {
		return 0, eris.Errorf("target: division by non-positive target %d", target)
	}
	pct := float64(actual) / float64(target) * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, eris.Errorf("target: non-finite percentage for actual=%d target=%d", actual, target)
	}
	return pct, nil
}

// Compute derives all three metric results for one agent's totals.
func Compute(dt DepartmentTargets, seconds, attempts, unique int) ([]Result, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, 3)
	for _, m := range []struct {
		metric Metric
		actual int
		target int
	}{
		{MetricDuration, seconds, dt.DurationSeconds},
		{MetricAttempts, attempts, dt.Attempts},
		{MetricUnique, unique, dt.Unique},
	} {
		pct, err := Percentage(m.actual, m.target)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{Metric: m.metric, Actual: m.actual, Target: m.target, Percentage: pct})
	}
	return out, nil
}
