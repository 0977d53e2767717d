// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one mashup order from discovery to delivery.
//
// Stages run strictly in sequence inside a run-scoped workspace that is
// removed on every exit path. Per-item faults are absorbed by their stage;
// no results, no assets, an empty merge, and archive failures end the run
// with an error. A failed delivery ends the run normally with a Failed
// outcome in the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mashup-engine/internal/acquire"
	"github.com/pdiddy/mashup-engine/internal/audio"
	"github.com/pdiddy/mashup-engine/internal/deliver"
	"github.com/pdiddy/mashup-engine/internal/discover"
	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/tool"
	"github.com/pdiddy/mashup-engine/internal/workspace"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

// ManifestName is the run record written into the workspace root.
const ManifestName = "manifest.yaml"

// Stage names a pipeline step for progress reporting.
type Stage string

const (
	StageDiscover  Stage = "discover"
	StageAcquire   Stage = "acquire"
	StageTrim      Stage = "trim"
	StageMerge     Stage = "merge"
	StageArchive   Stage = "archive"
	StageDeliver   Stage = "deliver"
	StageCompleted Stage = "completed"
)

// Pipeline holds the configuration and the boundaries of each stage.
type Pipeline struct {
	Config    types.PipelineConfig
	Backend   discover.Backend
	Source    acquire.Source
	FFmpeg    tool.Tool
	Transport deliver.Transport

	// Sleep replaces acquire.Sleep when set.
	Sleep acquire.Sleeper

	// OnStage is called as each stage begins.
	OnStage func(Stage)

	Logger *slog.Logger
}

// Result records everything a run produced. Fields for stages that did
// not run stay empty.
type Result struct {
	RunID     string                `json:"run_id" yaml:"run_id"`
	Request   Request               `json:"request" yaml:"request"`
	Workspace string                `json:"workspace" yaml:"workspace"`
	Locators  []types.Locator       `json:"locators" yaml:"locators"`
	Outcomes  []OutcomeSummary      `json:"outcomes" yaml:"outcomes"`
	Clips     []types.Clip          `json:"clips" yaml:"clips"`
	Dropped   []string              `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Track     *types.Track          `json:"track,omitempty" yaml:"track,omitempty"`
	Bundle    *types.Bundle         `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Exported  string                `json:"exported,omitempty" yaml:"exported,omitempty"`
	Delivery  *types.DeliveryResult `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	Error     string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// OutcomeSummary is the serializable form of an acquisition outcome.
type OutcomeSummary struct {
	Locator  string `json:"locator" yaml:"locator"`
	State    string `json:"state" yaml:"state"`
	Attempts int    `json:"attempts" yaml:"attempts"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Run executes req. The returned Result is populated as far as the run
// got, including when an error is returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	res := Result{Request: req}
	if err := req.Validate(); err != nil {
		return res, fmt.Errorf("invalid request: %w", err)
	}

	logger := p.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ws, err := workspace.New(p.Config.Workspace.BaseDir, p.Config.Workspace.Keep)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn("removing workspace", "path", ws.Root(), "error", err)
		}
	}()
	res.RunID = ws.ID()
	res.Workspace = ws.Root()
	logger = logging.WithRunID(logger, ws.ID())
	logger.Info("run started", "subject", req.Subject, "videos", req.VideoCount,
		"clip_seconds", req.ClipDuration, "workspace", ws.Root())

	err = p.run(ctx, req, ws, logger, &res)
	if err != nil {
		res.Error = err.Error()
		logger.Error("run failed", "error", err)
	} else {
		p.stage(StageCompleted)
		logger.Info("run finished", "clips", len(res.Clips), "outcome", res.Delivery.Outcome)
	}
	if ws.Kept() {
		if merr := writeManifest(filepath.Join(ws.Root(), ManifestName), res); merr != nil {
			logger.Warn("writing manifest", "error", merr)
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, req Request, ws *workspace.Workspace, logger *slog.Logger, res *Result) error {
	p.stage(StageDiscover)
	query := types.Query{Subject: req.Subject, TargetCount: req.VideoCount}
	locators, err := discover.Discover(ctx, p.Backend, query, logging.WithComponent(logger, "discover"))
	if err != nil {
		return err
	}
	res.Locators = locators

	p.stage(StageAcquire)
	acq := acquire.New(p.Source, ws.Assets(), p.Config.Acquisition, logger)
	if p.Sleep != nil {
		acq.Sleep = p.Sleep
	}
	report, err := acq.Acquire(ctx, locators)
	res.Outcomes = summarize(report)
	if err != nil {
		return err
	}

	p.stage(StageTrim)
	tr := audio.New(p.Config.Transform, p.FFmpeg, ws.Clips(), ws.Out(), logger)
	trimmed, err := tr.TrimEach(ctx, report.Assets(), req.ClipDuration)
	if err != nil {
		return err
	}
	res.Clips = trimmed.Clips
	for _, f := range trimmed.Failures {
		res.Dropped = append(res.Dropped, f.Error())
	}

	p.stage(StageMerge)
	track, err := tr.Merge(ctx, trimmed.Clips, audio.TrackMeta{Subject: req.Subject, RequestedCount: req.VideoCount})
	if err != nil {
		return err
	}
	res.Track = &track

	p.stage(StageArchive)
	bundle, err := deliver.Archive(track, ws.Out())
	if err != nil {
		return err
	}
	res.Bundle = &bundle

	if dir := p.Config.Workspace.OutputDir; dir != "" {
		exported, err := workspace.Export(bundle.Path, dir)
		if err != nil {
			logger.Warn("exporting bundle", "dir", dir, "error", err)
		} else {
			res.Exported = exported
		}
	}

	p.stage(StageDeliver)
	d := deliver.New(p.Config.Mail, p.Transport, logger)
	delivery := d.Deliver(ctx, bundle, req.Recipient, track.ClipCount, req.VideoCount)
	res.Delivery = &delivery
	return nil
}

func (p *Pipeline) stage(s Stage) {
	if p.OnStage != nil {
		p.OnStage(s)
	}
}

func summarize(report acquire.Report) []OutcomeSummary {
	out := make([]OutcomeSummary, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		s := OutcomeSummary{
			Locator:  o.Locator.String(),
			State:    string(o.State),
			Attempts: o.Attempts,
			Reason:   o.Reason(),
		}
		if o.Asset != nil {
			s.Title = o.Asset.Title
		}
		out = append(out, s)
	}
	return out
}

func writeManifest(path string, res Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
