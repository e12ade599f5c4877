package cli

import (
	"github.com/spf13/cobra"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/query"
)

func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <sql>",
		Short: "Print the query plan without reading the source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := sqlArg(cmd, args)
			if err != nil {
				return err
			}
			cfg, logger, err := rootOpts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			exec := query.NewExecutor(nil, nil, nil, frame.LoadOptions{}, logger)
			exec.SetDialect(cfg.SQLDialect())
			p, err := exec.Plan(sql)
			if err != nil {
				return err
			}
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Plan(p)
		},
	}
}
