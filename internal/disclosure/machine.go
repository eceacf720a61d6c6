// Package disclosure implements progressive hint reveal for a rendered
// record and accordion behaviour for the records of a page.
//
// A Machine lives for exactly one render of one record. Hints unlock in
// sequence: opening hint k unlocks hint k+1, and nothing ever locks again
// within the Machine's lifetime. The lock is a UI gate only.
package disclosure

import "errors"

// HintCount is the number of hint slots per record.
const HintCount = 3

// HintState is the state of one hint slot.
type HintState int

const (
	// Locked hints cannot be opened.
	Locked HintState = iota
	// UnlockedClosed hints can be opened.
	UnlockedClosed
	// UnlockedOpen hints are showing their content.
	UnlockedOpen
)

func (s HintState) String() string {
	switch s {
	case Locked:
		return "locked"
	case UnlockedClosed:
		return "closed"
	case UnlockedOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Errors returned by Machine transitions.
var (
	ErrLocked      = errors.New("hint is locked")
	ErrInvalidHint = errors.New("invalid hint number")
)

// Options set the initial state of a Machine.
type Options struct {
	// RevealAll starts hint 1 and the solution panel open. It does not
	// change which hints are locked.
	RevealAll bool
}

// Machine holds the disclosure state of one rendered record.
type Machine struct {
	hints    [HintCount]HintState
	solution bool
}

// New returns a Machine with hint 1 unlocked and hints 2 and 3 locked.
func New(opts Options) *Machine {
	m := &Machine{
		hints:    [HintCount]HintState{UnlockedClosed, Locked, Locked},
		solution: opts.RevealAll,
	}
	if opts.RevealAll {
		m.hints[0] = UnlockedOpen
	}
	return m
}

// State returns the state of hint k (1-based).
func (m *Machine) State(k int) (HintState, error) {
	if k < 1 || k > HintCount {
		return Locked, ErrInvalidHint
	}
	return m.hints[k-1], nil
}

// States returns a copy of all hint states, hint 1 first.
func (m *Machine) States() [HintCount]HintState {
	return m.hints
}

// Open shows hint k and unlocks hint k+1 if it was locked.
// Returns ErrLocked if hint k is locked.
func (m *Machine) Open(k int) error {
	s, err := m.State(k)
	if err != nil {
		return err
	}
	if s == Locked {
		return ErrLocked
	}
	m.hints[k-1] = UnlockedOpen
	if k < HintCount && m.hints[k] == Locked {
		m.hints[k] = UnlockedClosed
	}
	return nil
}

// Close hides hint k. Closing never locks anything.
// Closing a locked or already closed hint is a no-op.
func (m *Machine) Close(k int) error {
	s, err := m.State(k)
	if err != nil {
		return err
	}
	if s == UnlockedOpen {
		m.hints[k-1] = UnlockedClosed
	}
	return nil
}

// Toggle opens a closed hint or closes an open one and returns the new state.
func (m *Machine) Toggle(k int) (HintState, error) {
	s, err := m.State(k)
	if err != nil {
		return s, err
	}
	switch s {
	case UnlockedOpen:
		err = m.Close(k)
	default:
		err = m.Open(k)
	}
	if err != nil {
		return s, err
	}
	return m.hints[k-1], nil
}

// SolutionOpen reports whether the solution panel is open.
func (m *Machine) SolutionOpen() bool { return m.solution }

// ToggleSolution flips the solution panel. The solution is never gated.
func (m *Machine) ToggleSolution() bool {
	m.solution = !m.solution
	return m.solution
}
