// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mashup-engine/internal/pipeline"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

func sampleResult() pipeline.Result {
	return pipeline.Result{
		RunID:   "0190-abc",
		Request: pipeline.Request{Subject: "Sharry Maan", VideoCount: 12, ClipDuration: 25, Recipient: "fan@example.com"},
		Outcomes: []pipeline.OutcomeSummary{
			{Locator: "https://www.youtube.com/watch?v=a", State: "succeeded", Attempts: 1, Title: "Song A"},
			{Locator: "https://www.youtube.com/watch?v=b", State: "skipped", Attempts: 1, Reason: "no audio stream available"},
		},
		Track:  &types.Track{Format: "mp3", Duration: 250 * time.Second, ClipCount: 10},
		Bundle: &types.Bundle{Entry: "merged_audio.mp3", Size: 1024},
		Delivery: &types.DeliveryResult{
			Recipient:      "fan@example.com",
			Outcome:        types.DeliveryFailed,
			Reason:         "535 auth rejected",
			ClipCount:      10,
			RequestedCount: 12,
		},
	}
}

func TestPrintResult_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult(), "text"))

	out := buf.String()
	assert.Contains(t, out, `Run 0190-abc: "Sharry Maan"`)
	assert.Contains(t, out, "Song A")
	assert.Contains(t, out, "(no audio stream available)")
	assert.Contains(t, out, "mp3 (4m10s)")
	assert.Contains(t, out, "FAILED for fan@example.com: 535 auth rejected")
}

func TestPrintResult_Structured(t *testing.T) {
	var js bytes.Buffer
	require.NoError(t, printResult(&js, sampleResult(), "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "0190-abc", decoded["run_id"])

	var ym bytes.Buffer
	require.NoError(t, printResult(&ym, sampleResult(), "yaml"))
	var back pipeline.Result
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &back))
	assert.Equal(t, "Sharry Maan", back.Request.Subject)
	require.NotNil(t, back.Delivery)
	assert.Equal(t, types.DeliveryFailed, back.Delivery.Outcome)
}

func TestCheckOutputFormat(t *testing.T) {
	for _, f := range []string{"text", "yaml", "json"} {
		assert.NoError(t, checkOutputFormat(f))
	}
	assert.Error(t, checkOutputFormat("xml"))
}

func newRunFlags() *cobra.Command {
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("subject", "", "")
	cmd.Flags().Int("count", 0, "")
	cmd.Flags().Int("duration", 0, "")
	cmd.Flags().String("recipient", "", "")
	return cmd
}

func TestRequestFromFlags_DurationDefault(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Transform.ClipDuration = 30

	cmd := newRunFlags()
	require.NoError(t, cmd.Flags().Parse([]string{"--subject", " Sharry Maan ", "--count", "12", "--recipient", "fan@example.com"}))
	req := requestFromFlags(cmd, cfg)
	assert.Equal(t, pipeline.Request{Subject: "Sharry Maan", VideoCount: 12, ClipDuration: 30, Recipient: "fan@example.com"}, req)
	assert.NoError(t, req.Validate())

	cmd = newRunFlags()
	require.NoError(t, cmd.Flags().Parse([]string{"--duration", "45"}))
	assert.Equal(t, 45, requestFromFlags(cmd, cfg).ClipDuration, "flag wins over configuration")
}
