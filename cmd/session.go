package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/memoquiz-backend/internal/app"
	"github.com/yungbote/memoquiz-backend/internal/services"
)

func sessionCmd() *cobra.Command {
	var (
		count   int
		epsilon float64
		refill  int
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build a quiz session offline and print its questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if !cmd.Flags().Changed("count") {
					count = a.Cfg.DefaultSessionSize
				}
				if !cmd.Flags().Changed("epsilon") {
					epsilon = a.Cfg.ExplorationRate
				}
				if !cmd.Flags().Changed("refill") {
					refill = a.Cfg.RefillAttempts
				}
				sess, err := a.Services.Sessions.BuildSession(ctx, services.SessionOptions{
					Count:           count,
					ExplorationRate: epsilon,
					RefillAttempts:  refill,
				})
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for i, item := range sess.Items {
					fmt.Fprintf(w, "%d. [%s] %s (s=%d f=%d)\n", i+1, item.ID, item.Question, item.SuccessCount, item.FailureCount)
				}
				if sess.Degraded {
					fmt.Fprintf(w, "degraded: %d of %d questions\n", len(sess.Items), sess.Requested)
					for _, f := range sess.Failures {
						fmt.Fprintf(w, "  slot %d: %s\n", f.Slot, f.Reason)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of questions")
	cmd.Flags().Float64VarP(&epsilon, "epsilon", "e", 0.2, "Exploration rate in [0, 1]")
	cmd.Flags().IntVar(&refill, "refill", 0, "Extra attempts for failed slots")
	return cmd
}
