package main

import (
	"os"

	"github.com/ChicagoDave/popsim/internal/logging"
	"github.com/ChicagoDave/popsim/internal/server"
	"github.com/spf13/cobra"
)

var logger = logging.Discard()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logCfg logging.Config

	rootCmd := &cobra.Command{
		Use:          "popsim",
		Short:        "Population synthesis and accommodation resource estimator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logCfg.Writer = cmd.ErrOrStderr()
			l, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logCfg.Level, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logCfg.JSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(resourcesCmd())
	rootCmd.AddCommand(serveCmd())
	return rootCmd
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Synthesize a population and aggregate its resource demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			opts.populationSet = cmd.Flags().Changed("population")
			return runRun(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks a fresh one)")
	cmd.Flags().IntVarP(&opts.population, "population", "n", 0, "number of individuals")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.individuals, "individuals", false, "include individuals in JSON output")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a run spec without printing results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Show the built-in resource profile tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResources(cmd.OutOrStdout())
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the JSON API server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv, err := server.New(args[0], port, logger)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
