// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import "github.com/pdiddy/mashup-engine/pkg/types"

// State is a locator's position in the acquisition state machine.
type State string

const (
	StatePending    State = "pending"
	StateAttempting State = "attempting"
	StateSucceeded  State = "succeeded"
	StateSkipped    State = "skipped"
	StateExhausted  State = "exhausted"
)

// Terminal reports whether s ends the state machine.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateSkipped || s == StateExhausted
}

// Outcome is the tagged result for one locator. Asset is set only when
// State is StateSucceeded; Err holds the skip reason or the last
// transient fault otherwise.
type Outcome struct {
	Index    int
	Locator  types.Locator
	State    State
	Attempts int
	Asset    *types.Asset
	Err      error
}

// Reason returns Err as text, or "" when there is none.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Report holds the outcomes of a batch in input order.
type Report struct {
	Outcomes []Outcome
}

// Assets returns the acquired assets in input order.
func (r Report) Assets() []types.Asset {
	var assets []types.Asset
	for _, o := range r.Outcomes {
		if o.State == StateSucceeded && o.Asset != nil {
			assets = append(assets, *o.Asset)
		}
	}
	return assets
}

// Count returns how many outcomes ended in state.
func (r Report) Count(state State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}
