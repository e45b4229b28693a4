package inventory

import "fmt"

// ScanFailure records a recoverable failure for one (region, kind) scan.
// Region is "*" when the region list itself could not be resolved.
type ScanFailure struct {
	Region string
	Kind   Kind
	Err    error
}

func (f ScanFailure) Error() string {
	return fmt.Sprintf("scan %s in %s: %v", f.Kind, f.Region, f.Err)
}

// Session collects discovered resources for one scan run. Collections keep
// discovery order and are not deduplicated. A session is populated by the
// orchestrator, read-only afterwards, and discarded after reporting.
type Session struct {
	collections map[Kind][]Resource
	failures    []ScanFailure
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{collections: make(map[Kind][]Resource)}
}

// Append adds resources to a kind's collection, preserving order.
func (s *Session) Append(kind Kind, resources []Resource) {
	s.collections[kind] = append(s.collections[kind], resources...)
}

// Collection returns the resources discovered for a kind, in discovery order.
func (s *Session) Collection(kind Kind) []Resource {
	return s.collections[kind]
}

// Count returns the total number of resources across all kinds.
func (s *Session) Count() int {
	n := 0
	for _, rs := range s.collections {
		n += len(rs)
	}
	return n
}

// AddFailure records a recoverable scan failure.
func (s *Session) AddFailure(f ScanFailure) {
	s.failures = append(s.failures, f)
}

// Failures returns all recorded scan failures.
func (s *Session) Failures() []ScanFailure {
	return s.failures
}
