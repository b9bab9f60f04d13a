// SPDX-License-Identifier: MIT

// Package solver - the backend solve-status state machine.
//
// Every workspace carries a small FSM tracking the solve lifecycle:
//
//	uninitialized → factorized → {solved, failed}
//
// failed is terminal for the call that produced it, but not for the
// workspace: the next solve re-enters factorized (reusing or rebuilding the
// cache slot as the freshness/pattern policy dictates).

package solver

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

const (
	stateUninitialized = "uninitialized"
	stateFactorized    = "factorized"
	stateSolved        = "solved"
	stateFailed        = "failed"
)

const (
	eventFactorize = "factorize"
	eventSolve     = "solve"
	eventFail      = "fail"
)

// newSolveFSM builds the per-workspace status machine.
func newSolveFSM() *fsm.FSM {
	return fsm.NewFSM(
		stateUninitialized,
		fsm.Events{
			{Name: eventFactorize, Src: []string{stateUninitialized, stateSolved, stateFailed}, Dst: stateFactorized},
			{Name: eventSolve, Src: []string{stateFactorized}, Dst: stateSolved},
			{Name: eventFail, Src: []string{stateUninitialized, stateFactorized, stateSolved, stateFailed}, Dst: stateFailed},
		},
		fsm.Callbacks{},
	)
}

// transition fires an event, tolerating self-loops (failing from failed).
func (ws *Workspace) transition(event string) {
	err := ws.machine.Event(context.Background(), event)
	if err == nil {
		return
	}
	var noop fsm.NoTransitionError
	if errors.As(err, &noop) {
		return
	}
	// Transition tables above are closed over the dispatcher's call order;
	// anything else is a programmer error.
	panic("solver: illegal status transition " + ws.machine.Current() + " --" + event)
}

// State reports the workspace's current solve-status state.
func (ws *Workspace) State() string { return ws.machine.Current() }
