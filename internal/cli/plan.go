package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pomo/internal/core/model"
	"pomo/internal/core/sequencer"

	"github.com/spf13/cobra"
)

func buildPlanCommand(options *globalOptions) *cobra.Command {
	var count int
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the upcoming sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			settings, _, err := options.loadSettings()
			if err != nil {
				return err
			}
			settings, err = flags.apply(cmd, settings)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), settings.Config(), count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 8, "number of sessions to show")
	flags.register(cmd)
	return cmd
}

func writePlan(out io.Writer, config model.Config, count int) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for index, sessionType := range sequencer.Plan(sequencer.State{}, config, count) {
		seconds := sequencer.SecondsFor(sessionType, config)
		if _, err := fmt.Fprintf(writer, "%d.\t%s\t%s\n", index+1, sessionType.Label(), model.FormatSeconds(seconds)); err != nil {
			return err
		}
	}
	return writer.Flush()
}
