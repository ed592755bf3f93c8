package elector

import (
	"errors"
	"time"

	"github.com/aguerrero22/model-elector/internal/registry"
)

// ErrNoBackendAvailable is returned by Decide when no backend produced a
// successful result before aggregation stopped.
var ErrNoBackendAvailable = errors.New("no backend available")

// Kind tags the terminal outcome of one backend call.
type Kind int

const (
	KindSuccess Kind = iota
	KindTimeout
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTimeout:
		return "timeout"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one dispatched call. Exactly one Result is
// produced per call; Payload is set only for KindSuccess and Err only for
// KindTimeout and KindError.
type Result struct {
	Target  *registry.Target
	Kind    Kind
	Payload []byte
	Err     error
	Elapsed time.Duration
}

// Decision is the final output of one election: the chosen payload and the
// target it came from.
type Decision struct {
	Payload []byte
	Source  *registry.Target
}
