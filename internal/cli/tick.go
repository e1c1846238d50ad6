package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/moonshill-backend/internal/app"
	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
)

func newTickCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduling batch over every due campaign and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Runner.RunBatch(cmd.Context())
			if err != nil {
				return err
			}
			printBatch(cmd, res)
			return nil
		},
	}
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var force bool
	c := &cobra.Command{
		Use:   "generate <campaign-id>",
		Short: "Generate posts for one campaign now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid campaign id %q: %w", args[0], err)
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Runner.RunCampaign(cmd.Context(), id, force)
			if err != nil {
				return err
			}
			printOutcome(cmd, out)
			if len(out.Posts) == 0 && len(out.Failures) > 0 {
				return fmt.Errorf("no posts generated: %d platform(s) failed", len(out.Failures))
			}
			return nil
		},
	}
	c.Flags().BoolVar(&force, "force", true, "run even if the campaign is not due")
	return c
}

func printBatch(cmd *cobra.Command, res campaigntick.BatchResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "listed=%d claimed=%d lost=%d skipped=%d advanced=%d paused=%d failed=%d posts=%d\n",
		res.Listed, res.Claimed, res.Lost, res.Skipped, res.Advanced, res.Paused, res.Failed, res.Posts)
}

func printOutcome(cmd *cobra.Command, out *campaigntick.Outcome) {
	w := cmd.OutOrStdout()
	if out == nil {
		return
	}
	if out.Skipped != "" {
		fmt.Fprintf(w, "campaign %s skipped: %s\n", out.CampaignID, out.Skipped)
		return
	}
	for _, p := range out.Posts {
		fmt.Fprintf(w, "[%s] %s\n", p.Platform, p.Content)
	}
	for _, f := range out.Failures {
		fmt.Fprintf(w, "[%s] failed (%s): %v\n", f.Platform, f.Kind, f.Err)
	}
	if out.Paused {
		fmt.Fprintf(w, "campaign %s paused\n", out.CampaignID)
	}
	if out.NextRunAt != nil {
		fmt.Fprintf(w, "next run at %s\n", out.NextRunAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
}
