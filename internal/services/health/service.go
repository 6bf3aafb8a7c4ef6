package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Checker checks one dependency.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// Report is the readiness payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	checkers map[string]Checker
	timeout  time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checkers: make(map[string]Checker), timeout: 5 * time.Second}
}

// Register adds a named readiness check. Not safe to call concurrently with Ready.
func (s *Service) Register(name string, c Checker) {
	s.checkers[name] = c
}

// Names lists registered checks in order.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status returns a simple liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready runs every check in parallel under a shared timeout.
func (s *Service) Ready(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report := Report{OK: true, Checks: make(map[string]string, len(s.checkers))}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, c := range s.checkers {
		wg.Add(1)
		go func(name string, c Checker) {
			defer wg.Done()
			status := "ok"
			if err := c.Check(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			report.Checks[name] = status
			if status != "ok" {
				report.OK = false
			}
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()
	return report
}
