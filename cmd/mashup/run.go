// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mashup-engine/internal/pipeline"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a mashup and mail it to the recipient",
	Long: `Run discovers --count videos for --subject, downloads their audio, trims
each to --duration seconds, merges the clips in discovery order, zips the
track, and mails it to --recipient.

Videos without audio and downloads that keep failing are dropped; the
mashup is built from whatever remains. A failed delivery is reported and
exits non-zero, but the run itself completes.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("subject", "", "artist or search phrase")
	runCmd.Flags().Int("count", 0, "number of videos (must be greater than 10)")
	runCmd.Flags().Int("duration", 0, "seconds kept from each video, must be greater than 20 (default transform.clip_duration)")
	runCmd.Flags().String("recipient", "", "email address that receives the mashup")
	runCmd.Flags().String("output", "text", "report format: text, yaml or json")
	runCmd.Flags().Bool("keep-workspace", false, "keep the run directory and its manifest")
	runCmd.Flags().String("output-dir", "", "copy the archive into this directory")
	runCmd.Flags().String("format", "", "track format: mp3 or wav (default mp3)")
	runCmd.Flags().String("backend", "", "discovery backend: youtube-api or yt-dlp")

	viper.BindPFlag("transform.clip_duration", runCmd.Flags().Lookup("duration"))
	viper.BindPFlag("workspace.keep", runCmd.Flags().Lookup("keep-workspace"))
	viper.BindPFlag("workspace.output_dir", runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("transform.output_format", runCmd.Flags().Lookup("format"))
	viper.BindPFlag("discovery.backend", runCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := checkOutputFormat(output); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req := requestFromFlags(cmd, cfg)
	if err := req.Validate(); err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := p.Run(ctx, req)
	if err := printResult(os.Stdout, res, output); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if !res.Delivery.Sent() {
		return fmt.Errorf("delivery to %s failed: %s", res.Delivery.Recipient, res.Delivery.Reason)
	}
	return nil
}

// requestFromFlags builds the order. The clip duration falls back to
// transform.clip_duration when --duration is not given.
func requestFromFlags(cmd *cobra.Command, cfg types.PipelineConfig) pipeline.Request {
	subject, _ := cmd.Flags().GetString("subject")
	count, _ := cmd.Flags().GetInt("count")
	duration := cfg.Transform.ClipDuration
	if cmd.Flags().Changed("duration") {
		duration, _ = cmd.Flags().GetInt("duration")
	}
	recipient, _ := cmd.Flags().GetString("recipient")
	return pipeline.Request{
		Subject:      strings.TrimSpace(subject),
		VideoCount:   count,
		ClipDuration: duration,
		Recipient:    strings.TrimSpace(recipient),
	}
}

func checkOutputFormat(format string) error {
	switch format {
	case "text", "yaml", "json":
		return nil
	}
	return fmt.Errorf("unsupported output %q: use text, yaml or json", format)
}

func printResult(w io.Writer, res pipeline.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "Run %s: %q\n", res.RunID, res.Request.Subject)
	fmt.Fprintf(w, "  discovered  %d\n", len(res.Locators))
	for _, o := range res.Outcomes {
		line := fmt.Sprintf("    %-10s %d  %s", o.State, o.Attempts, o.Locator)
		if o.Title != "" {
			line += "  " + o.Title
		}
		if o.Reason != "" {
			line += "  (" + o.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  clips       %d\n", len(res.Clips))
	for _, d := range res.Dropped {
		fmt.Fprintf(w, "    dropped   %s\n", d)
	}
	if res.Track != nil {
		fmt.Fprintf(w, "  track       %s (%s)\n", res.Track.Format, res.Track.Duration.Round(time.Second))
	}
	if res.Bundle != nil {
		fmt.Fprintf(w, "  archive     %s, %d bytes\n", res.Bundle.Entry, res.Bundle.Size)
	}
	if res.Exported != "" {
		fmt.Fprintf(w, "  exported    %s\n", res.Exported)
	}
	if d := res.Delivery; d != nil {
		if d.Sent() {
			fmt.Fprintf(w, "  delivery    sent to %s (%d of %d clips)\n", d.Recipient, d.ClipCount, d.RequestedCount)
		} else {
			fmt.Fprintf(w, "  delivery    FAILED for %s: %s\n", d.Recipient, d.Reason)
		}
	}
	if res.Error != "" {
		fmt.Fprintf(w, "  error       %s\n", res.Error)
	}
	return nil
}
