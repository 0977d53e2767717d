// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DeliveryOutcome reports whether the bundle reached the mail transport.
type DeliveryOutcome string

const (
	DeliverySent   DeliveryOutcome = "sent"
	DeliveryFailed DeliveryOutcome = "failed"
)

// DeliveryResult is the terminal artifact of a run. It is not persisted.
type DeliveryResult struct {
	// Recipient is the address the bundle was sent to.
	Recipient string `json:"recipient" yaml:"recipient"`

	// Bundle is the archive that was attached.
	Bundle Bundle `json:"bundle" yaml:"bundle"`

	// Outcome is sent or failed.
	Outcome DeliveryOutcome `json:"outcome" yaml:"outcome"`

	// Reason explains a failed outcome. Empty when sent.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// ClipCount is the number of clips that made it into the track.
	ClipCount int `json:"clip_count" yaml:"clip_count"`

	// RequestedCount is the number of videos the caller asked for.
	RequestedCount int `json:"requested_count" yaml:"requested_count"`
}

// Sent reports whether the delivery succeeded.
func (r DeliveryResult) Sent() bool {
	return r.Outcome == DeliverySent
}
