// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeWindow is the inclusive [Start, End] range that decides whether an
// event (creation, closure, merge, review submission) counts for a run.
// It is constructed once from configuration and never mutated afterwards.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow validates that start does not come after end.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.After(end) {
		return TimeWindow{}, fmt.Errorf("invalid time window: start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, boundaries included.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Dates returns every ISO calendar date covered by the window, in order,
// with no gaps. Day buckets are derived in UTC.
func (w TimeWindow) Dates() []string {
	var dates []string
	for d := w.Start.UTC(); !d.After(w.End.UTC()); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// DateLayout is the layout used for daily activity bucket keys.
const DateLayout = "2006-01-02"

// RepoRef identifies a single repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepoRef splits an "owner/name" identifier. Anything other than exactly
// one separator with non-empty halves is a configuration error.
func ParseRepoRef(identifier string) (RepoRef, error) {
	owner, name, ok := strings.Cut(identifier, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, &MalformedIdentifierError{Identifier: identifier}
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// ParseRepoRefs parses a full repository list, failing fast on the first
// malformed identifier.
func ParseRepoRefs(identifiers []string) ([]RepoRef, error) {
	refs := make([]RepoRef, 0, len(identifiers))
	for _, id := range identifiers {
		ref, err := ParseRepoRef(id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// String returns the canonical "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
