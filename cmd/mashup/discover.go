// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mashup-engine/internal/discover"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the videos a run would use",
	Long: `Discover runs only the search stage and prints one locator per line,
in the order a run would acquire them. Nothing is downloaded or sent.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().String("subject", "", "artist or search phrase")
	discoverCmd.Flags().Int("count", 10, "number of videos")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	count, _ := cmd.Flags().GetInt("count")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := discover.NewBackend(cfg.Discovery)
	if err != nil {
		return err
	}

	locators, err := discover.Discover(context.Background(), backend,
		types.Query{Subject: subject, TargetCount: count}, logger)
	if err != nil {
		return err
	}
	for _, l := range locators {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", l, l.Title)
	}
	return nil
}
