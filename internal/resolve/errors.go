// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a single lookup attempt failed.
type FailureKind int

const (
	FailUnknown FailureKind = iota
	FailMissingIdentifier
	FailInsufficientMetadata
	FailNotFound
	FailNoCitationCount
	FailNoResults
	FailBadRequest
	FailRateLimited
	FailAuth
	FailServer
	FailNetwork
)

func (k FailureKind) String() string {
	switch k {
	case FailMissingIdentifier:
		return "missing-identifier"
	case FailInsufficientMetadata:
		return "insufficient-metadata"
	case FailNotFound:
		return "not-found"
	case FailNoCitationCount:
		return "no-citation-count"
	case FailNoResults:
		return "no-results"
	case FailBadRequest:
		return "bad-request"
	case FailRateLimited:
		return "rate-limited"
	case FailAuth:
		return "auth-failure"
	case FailServer:
		return "server-error"
	case FailNetwork:
		return "network-failure"
	default:
		return "unknown"
	}
}

// severityRank orders failure kinds for final-error selection. Transport
// and server problems outrank client mistakes; all "the data just is not
// there" kinds share the lowest rank so the earliest attempt wins ties.
var severityRank = map[FailureKind]int{
	FailNetwork:              6,
	FailServer:               5,
	FailAuth:                 4,
	FailRateLimited:          3,
	FailBadRequest:           2,
	FailNotFound:             1,
	FailNoCitationCount:      1,
	FailNoResults:            1,
	FailInsufficientMetadata: 1,
	FailMissingIdentifier:    1,
	FailUnknown:              0,
}

// Severity returns the rank used to pick the final error after all
// attempts fail. Higher is more severe.
func (k FailureKind) Severity() int { return severityRank[k] }

// Soft reports whether the kind means "no data" rather than a transport,
// auth, or server problem.
func (k FailureKind) Soft() bool { return severityRank[k] <= 1 }

// Sentinel causes carried inside AttemptError. Extraction and parsing
// wrap these so callers can test with errors.Is.
var (
	ErrNoDOI           = errors.New("record has no DOI")
	ErrNoPreprintID    = errors.New("no preprint identifier in URL field")
	ErrNoMetadata      = errors.New("record lacks a title plus an author or year")
	ErrNoSearchResults = errors.New("search returned no results")
	ErrNoKinds         = errors.New("provider supports no identifier kinds")
)

// AttemptError describes one failed lookup attempt. The engine collects
// these across identifier kinds and surfaces the most severe.
type AttemptError struct {
	Kind     FailureKind
	Provider string
	Ident    Kind  // identifier kind attempted
	Status   int   // HTTP status when the failure came from a response
	Err      error // underlying cause, may be nil
}

func (e *AttemptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	switch e.Kind {
	case FailNoResults, FailUnknown:
		b.WriteString(" lookup: ")
	default:
		fmt.Fprintf(&b, " %s lookup: ", e.Ident)
	}
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AttemptError) Unwrap() error { return e.Err }

// AsAttempt unpacks an AttemptError from err's chain.
func AsAttempt(err error) (*AttemptError, bool) {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
