// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Caller policy bounds. A run needs more than MinVideoCount videos and
// clips longer than MinClipDuration seconds.
const (
	MinVideoCount   = 10
	MinClipDuration = 20
)

// Request is one mashup order.
type Request struct {
	Subject      string `json:"subject" yaml:"subject"`
	VideoCount   int    `json:"video_count" yaml:"video_count"`
	ClipDuration int    `json:"clip_duration" yaml:"clip_duration"`
	Recipient    string `json:"recipient" yaml:"recipient"`
}

// Validate reports every field that violates caller policy.
func (r Request) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Subject) == "" {
		errs = append(errs, errors.New("subject is required"))
	}
	if r.VideoCount <= MinVideoCount {
		errs = append(errs, fmt.Errorf("video count must be greater than %d, got %d", MinVideoCount, r.VideoCount))
	}
	if r.ClipDuration <= MinClipDuration {
		errs = append(errs, fmt.Errorf("clip duration must be greater than %d seconds, got %d", MinClipDuration, r.ClipDuration))
	}
	if !strings.Contains(r.Recipient, "@") {
		errs = append(errs, fmt.Errorf("recipient %q is not an email address", r.Recipient))
	}
	return errors.Join(errs...)
}
