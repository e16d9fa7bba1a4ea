package health

import "context"

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means every checked component is operational.
	Healthy Status = "ok"
	// Degraded means at least one component is failing.
	Degraded Status = "degraded"
)

// CheckResult is a single component's health outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates per-component check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

// Service runs the component health checks.
type Service struct {
	checks []namedCheck
}

// New creates a Service. embedding and llm may be nil; their checks are then
// omitted from the report.
func New(store Pinger, embedding, llm ProviderChecker) *Service {
	s := &Service{}
	s.checks = append(s.checks, namedCheck{"redis", store.Ping})
	if embedding != nil {
		s.checks = append(s.checks, namedCheck{"embedding", embedding.HealthCheck})
	}
	if llm != nil {
		s.checks = append(s.checks, namedCheck{"llm", llm.HealthCheck})
	}
	return s
}

// Check probes every component and aggregates the outcome. Any failing
// component degrades the overall status.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.checks))}

	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			report.Checks[c.name] = CheckError
			report.Status = Degraded
			continue
		}
		report.Checks[c.name] = CheckOK
	}

	return report
}
