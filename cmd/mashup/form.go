// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mashup-engine/internal/form"
	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/pipeline"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in the order interactively and run it",
	Long: `Form asks for the singer name, number of videos, clip duration, and
recipient, checks them, and runs the same pipeline as "mashup run" while
showing the current stage. Logs are suppressed while the form is open.`,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	p.Logger = logging.Discard()

	runner := func(ctx context.Context, req pipeline.Request, onStage func(pipeline.Stage)) (pipeline.Result, error) {
		p.OnStage = onStage
		return p.Run(ctx, req)
	}

	res, err := form.Run(context.Background(), runner)
	if err != nil {
		return err
	}
	if res.Delivery != nil && !res.Delivery.Sent() {
		return fmt.Errorf("delivery to %s failed: %s", res.Delivery.Recipient, res.Delivery.Reason)
	}
	return nil
}
