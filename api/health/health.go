// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"time"
)

// Checker is the interface for health checking
type Checker interface {
	// HealthCheck returns information about the health of the service
	HealthCheck(context.Context) (interface{}, error)
}

// Report is a health report
type Report struct {
	// Details is a map of detailed health information
	Details map[string]interface{} `json:"details,omitempty"`

	// Healthy is true if the service is healthy
	Healthy bool `json:"healthy"`

	// Checks is a list of health checks performed
	Checks []Check `json:"checks,omitempty"`

	// Duration is how long the health check took
	Duration time.Duration `json:"duration"`
}

// Check is an individual health check
type Check struct {
	// Name is the name of the check
	Name string `json:"name"`

	// Healthy is true if the check passed
	Healthy bool `json:"healthy"`

	// Error is the error message if the check failed
	Error string `json:"error,omitempty"`

	// Details contains additional information about the check
	Details map[string]interface{} `json:"details,omitempty"`

	// Duration is how long this specific check took
	Duration time.Duration `json:"duration"`
}

// Aggregator runs every registered Checker and folds the results into a
// single Report, in registration order.
type Aggregator struct {
	checks []namedChecker
}

type namedChecker struct {
	name    string
	checker Checker
}

// Register adds a named Checker to the aggregator.
func (a *Aggregator) Register(name string, checker Checker) {
	a.checks = append(a.checks, namedChecker{name: name, checker: checker})
}

// Run executes every registered check and reports overall health as the
// conjunction of all of them.
func (a *Aggregator) Run(ctx context.Context) Report {
	start := time.Now()
	report := Report{Healthy: true}
	for _, nc := range a.checks {
		checkStart := time.Now()
		details, err := nc.checker.HealthCheck(ctx)
		check := Check{Name: nc.name, Duration: time.Since(checkStart)}
		if err != nil {
			check.Healthy = false
			check.Error = err.Error()
			report.Healthy = false
		} else {
			check.Healthy = true
			if m, ok := details.(map[string]interface{}); ok {
				check.Details = m
			}
		}
		report.Checks = append(report.Checks, check)
	}
	report.Duration = time.Since(start)
	return report
}