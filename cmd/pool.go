package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/memoquiz-backend/internal/app"
	"github.com/yungbote/memoquiz-backend/internal/data/repos/quiz"
	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

func poolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Inspect the persisted quiz pool",
	}
	cmd.AddCommand(poolDumpCmd())
	cmd.AddCommand(poolStatsCmd())
	cmd.AddCommand(poolImportCmd())
	return cmd
}

func poolImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [quizs.json]",
		Short: "Replace the configured pool with the contents of a pool file",
		Long: `Reads a JSON pool file, including files written in the legacy
question_id/memory_id/bad_answer layout, and replaces the configured pool
with it in one locked write.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				src := quiz.NewFileStore(args[0], a.Log)
				pool, err := src.LoadAll(ctx)
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				if err := a.Repos.QuizPool.ReplaceAll(ctx, pool); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", len(pool))
				return nil
			})
		},
	}
}

func poolDumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every quiz item with its counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				pool, err := a.Repos.QuizPool.Snapshot(ctx)
				if err != nil {
					return err
				}
				return writePool(cmd.OutOrStdout(), pool, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func poolStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize pool size and recorded outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				pool, err := a.Repos.QuizPool.Snapshot(ctx)
				if err != nil {
					return err
				}
				st := pool.Stats()
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Items:     %d\n", st.Size)
				fmt.Fprintf(w, "Successes: %d\n", st.TotalSuccesses)
				fmt.Fprintf(w, "Failures:  %d\n", st.TotalFailures)
				return nil
			})
		},
	}
}

// writePool emits items sorted by id so repeated dumps diff cleanly.
func writePool(w io.Writer, pool types.Pool, format string) error {
	ids := make([]string, 0, len(pool))
	for id := range pool {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]*types.QuizItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, pool[id])
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
