package cli

import (
	"github.com/spf13/cobra"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/engine"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/fetch"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/query"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/store/tablestore"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Engine string
}

func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Fetch the source and run the query",
		Long: `Parse the query, fetch its source, load it as CSV and print the result.
The source is read anew on every run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "", "execution backend (sqlite|sqlite3|postgres), overrides the config")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, args []string) error {
	sql, err := sqlArg(cmd, args)
	if err != nil {
		return err
	}
	cfg, logger, err := opts.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.Engine != "" {
		cfg.Engine.Backend = opts.Engine
	}

	tables, err := tablestore.NewTableStore(cfg.Tables)
	if err != nil {
		return err
	}
	eng, err := engine.Open(cmd.Context(), cfg.EngineConfig(), logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	exec := query.NewExecutor(tables, fetch.New(cfg.FetchConfig(), logger), eng, cfg.LoadOptions(), logger)
	exec.SetDialect(cfg.SQLDialect())
	res, err := exec.Query(cmd.Context(), sql)
	if err != nil {
		return err
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Result(res)
}
