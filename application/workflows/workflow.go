// Package workflows implements the asynchronous asset workflows: generate,
// edit and upscale. Each workflow is a small state machine that submits a
// request to an external service, holds the result in staging, and mutates
// the graph only when the result is explicitly accepted.
package workflows

import (
	"sync"

	"mediagraph/pkg/errors"
)

// Phase is the lifecycle state of a workflow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// machine is the shared single-flight lifecycle underneath every workflow.
// At most one submission per workflow is in flight; a second Submit while
// one is pending is rejected with a conflict.
type machine struct {
	mu    sync.Mutex
	phase Phase
	err   error
}

func newMachine() *machine {
	return &machine{phase: PhaseIdle}
}

func (m *machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Err returns the failure recorded by the last submission, if any.
func (m *machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// begin transitions idle/succeeded/failed -> submitting. It fails with a
// conflict while a submission is already in flight.
func (m *machine) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseSubmitting {
		return errors.NewConflictError("a request is already in flight")
	}
	m.phase = PhaseSubmitting
	m.err = nil
	return nil
}

func (m *machine) succeed() {
	m.mu.Lock()
	m.phase = PhaseSucceeded
	m.err = nil
	m.mu.Unlock()
}

func (m *machine) fail(err error) {
	m.mu.Lock()
	m.phase = PhaseFailed
	m.err = err
	m.mu.Unlock()
}

func (m *machine) reset() {
	m.mu.Lock()
	m.phase = PhaseIdle
	m.err = nil
	m.mu.Unlock()
}
