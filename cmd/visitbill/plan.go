package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/visitbill/internal/aggregate"
	"github.com/gyeh/visitbill/internal/clean"
	"github.com/gyeh/visitbill/internal/exitcode"
	"github.com/gyeh/visitbill/internal/logging"
	"github.com/gyeh/visitbill/internal/resolve"
	"github.com/gyeh/visitbill/internal/tabular"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no billing, no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringArrayVar(&cfg.FilePaths, "file", nil, "Path to a visit export; repeatable")
	f.StringVar(&policyFile, "policy", "", "YAML verification policy file")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if policyFile != "" {
		if err := cfg.LoadFromFile(policyFile); err != nil {
			log.Error().Err(err).Msg("policy file invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	matcher := clean.NewMatcher(cfg.StatusMatch, cfg.StatusSubstring)

	fmt.Println("=== visitbill plan ===")
	for _, path := range cfg.FilePaths {
		t, err := tabular.Open(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("read failed")
			os.Exit(exitcode.ReadError)
		}

		sha, err := tabular.FileHash(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("hash failed")
			os.Exit(exitcode.ReadError)
		}

		m, err := resolve.Table(t)
		if err != nil {
			log.Error().Err(err).Str("file", t.Source).Msg("schema validation failed")
			os.Exit(exitcode.SchemaError)
		}

		cleaned := clean.Table(t, m, matcher)
		stats := aggregate.Summarize(aggregate.Records(cleaned.Records))

		mode := "positional"
		if m.Named {
			mode = "named"
		}

		fmt.Printf("File:       %s\n", path)
		fmt.Printf("SHA-256:    %s\n", sha)
		fmt.Printf("Columns:    %s (client=%d employee=%d service=%d status=%d)\n",
			mode, m.Client, m.Employee, m.Service, m.Status)
		fmt.Printf("Rows:       %d read, %d kept, %d rejected\n",
			cleaned.RowsRead(), len(cleaned.Records), len(cleaned.Rejected))
		fmt.Printf("Distinct:   %d clients, %d employees, %d services\n",
			stats.UniqueClients, stats.UniqueEmployees, stats.UniqueServices)
		fmt.Println("Schema validation: OK")
		fmt.Println()
	}

	return nil
}
