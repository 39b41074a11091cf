package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solstice-fi/lorebase/notion"
	"github.com/solstice-fi/lorebase/stats"
)

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the configured upstreams once and report per-source status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cfg)
		},
	}
}

func runCheck(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := notion.New(notion.Config{
		BaseURL:    cfg.Notion.BaseURL,
		Token:      cfg.Notion.Token,
		MaxRetries: 1,
	})
	backend := stats.NewClient(stats.Config{BaseURL: cfg.Backend.BaseURL})

	probes := []struct {
		name string
		run  func(context.Context) error
	}{
		{"brand page", func(ctx context.Context) error {
			_, err := client.BlockChildren(ctx, cfg.Notion.BrandPageID)
			return err
		}},
		{"glossary concepts db", func(ctx context.Context) error {
			_, err := client.QueryDatabase(ctx, cfg.Notion.ConceptsDB)
			return err
		}},
		{"glossary components db", func(ctx context.Context) error {
			_, err := client.QueryDatabase(ctx, cfg.Notion.ComponentsDB)
			return err
		}},
		{"backend analytics", func(ctx context.Context) error {
			_, err := backend.Chains(ctx)
			return err
		}},
	}

	failures := 0
	for _, p := range probes {
		if err := p.run(ctx); err != nil {
			failures++
			fmt.Printf("FAIL  %-22s %v\n", p.name, err)
			continue
		}
		fmt.Printf("ok    %s\n", p.name)
	}

	if failures == len(probes) {
		return fmt.Errorf("all %d upstream probes failed", failures)
	}
	if failures > 0 {
		fmt.Printf("%d of %d probes failed\n", failures, len(probes))
	}
	return nil
}
