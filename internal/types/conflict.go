package types

import (
	"fmt"
	"strings"
)

// Conflict is one fatal finding of a resolution attempt.
type Conflict struct {
	Kind       ErrorKind `yaml:"error_kind" json:"error_kind" toml:"error_kind"`
	Message    string    `yaml:"message" json:"message" toml:"message"`
	Identities []string  `yaml:"offending_identities" json:"offending_identities" toml:"offending_identities"`
}

// Warning is an advisory finding attached to a successful plan.
type Warning struct {
	Kind       ErrorKind `yaml:"kind" json:"kind" toml:"kind"`
	Message    string    `yaml:"message" json:"message" toml:"message"`
	Identities []string  `yaml:"identities,omitempty" json:"identities,omitempty" toml:"identities,omitempty"`
}

// ConflictReport is returned instead of a BuildPlan when resolution
// fails. Conflicts keep the order in which they were detected.
type ConflictReport struct {
	Conflicts []Conflict `yaml:"conflicts" json:"conflicts" toml:"conflicts"`
}

func (r *ConflictReport) Error() string {
	if r == nil || len(r.Conflicts) == 0 {
		return "resolution failed"
	}
	messages := make([]string, 0, len(r.Conflicts))
	for _, conflict := range r.Conflicts {
		messages = append(messages, fmt.Sprintf("%s: %s", conflict.Kind, conflict.Message))
	}
	return strings.Join(messages, "; ")
}

func (r *ConflictReport) Add(kind ErrorKind, message string, identities ...string) {
	r.Conflicts = append(r.Conflicts, Conflict{
		Kind:       kind,
		Message:    message,
		Identities: append([]string{}, identities...),
	})
}

func (r *ConflictReport) Empty() bool {
	return r == nil || len(r.Conflicts) == 0
}

func (r *ConflictReport) Has(kind ErrorKind) bool {
	if r == nil {
		return false
	}
	for _, conflict := range r.Conflicts {
		if conflict.Kind == kind {
			return true
		}
	}
	return false
}

func (r *ConflictReport) Kinds() []ErrorKind {
	if r == nil {
		return nil
	}
	kinds := make([]ErrorKind, 0, len(r.Conflicts))
	for _, conflict := range r.Conflicts {
		kinds = append(kinds, conflict.Kind)
	}
	return kinds
}
