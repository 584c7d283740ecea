package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/visitbill/internal/archive"
	"github.com/gyeh/visitbill/internal/billing"
	"github.com/gyeh/visitbill/internal/clean"
	"github.com/gyeh/visitbill/internal/exitcode"
	"github.com/gyeh/visitbill/internal/logging"
	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/pipeline"
	"github.com/gyeh/visitbill/internal/resolve"
	"github.com/gyeh/visitbill/internal/store"
	"github.com/gyeh/visitbill/internal/tabular"
)

var (
	policyFile  string
	showRejects bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Clean, aggregate, and bill one or more visit export files",
	RunE:  runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringArrayVar(&cfg.FilePaths, "file", nil, "Path to a visit export (.csv, .xlsx, .xlsm, .parquet); repeatable")
	f.StringVar(&cfg.RatesFile, "rates", "", "YAML rates file (default: load rates from the database)")
	f.StringVar(&policyFile, "policy", "", "YAML verification policy file")
	f.StringVar(&cfg.ArchivePath, "archive", "", "Write surviving records to this Parquet file")
	f.BoolVar(&cfg.Save, "save", false, "Record the run in the history tables")
	f.BoolVar(&cfg.Force, "force", false, "Process files whose SHA-256 is already recorded")
	f.BoolVar(&showRejects, "show-rejects", false, "List every rejected row with its reason")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if policyFile != "" {
		if err := cfg.LoadFromFile(policyFile); err != nil {
			log.Error().Err(err).Msg("policy file invalid")
			os.Exit(exitcode.UsageError)
		}
	}

	needsDB := cfg.Save || cfg.RatesFile == ""
	if err := validateProcessConfig(needsDB); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, rates := connectAndLoadRates(ctx, log, needsDB)
	if pool != nil {
		defer pool.Close()
	}

	tables, shas := readFiles(ctx, log, pool)
	if len(tables) == 0 {
		fmt.Println("Nothing to do: all files already processed (use --force to reprocess).")
		return nil
	}

	opts := pipeline.Options{
		Matcher: clean.NewMatcher(cfg.StatusMatch, cfg.StatusSubstring),
	}
	res, err := pipeline.Run(log, tables, rates, opts)
	if err != nil {
		var se *resolve.SchemaError
		if errors.As(err, &se) {
			log.Error().Err(se).Msg("batch rejected")
			os.Exit(exitcode.SchemaError)
		}
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(exitcode.SchemaError)
	}

	if cfg.ArchivePath != "" {
		records := collectRecords(tables, opts.Matcher)
		if err := archive.Write(cfg.ArchivePath, records); err != nil {
			log.Error().Err(err).Str("path", cfg.ArchivePath).Msg("archive write failed")
			os.Exit(exitcode.WriteError)
		}
		log.Info().Str("path", cfg.ArchivePath).Int("records", len(records)).Msg("archive written")
	}

	if cfg.Save {
		runs := store.NewRunStore(pool)
		if err := runs.SaveRun(ctx, res.Summary, shas); err != nil {
			log.Error().Err(err).Msg("saving run history failed")
			os.Exit(exitcode.StoreError)
		}
		log.Info().Str("run_id", res.Summary.RunID.String()).Msg("run recorded")
	}

	printReport(res)
	return nil
}

func validateProcessConfig(needsDB bool) error {
	if needsDB {
		return cfg.ValidateWithDSN()
	}
	return cfg.Validate()
}

// connectAndLoadRates opens the pool when the run needs the database and
// loads the rate snapshot from the configured source.
func connectAndLoadRates(ctx context.Context, log zerolog.Logger, needsDB bool) (pool *pgxpool.Pool, rates *model.RateTable) {
	if needsDB {
		p, err := store.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		pool = p
	}

	if cfg.RatesFile != "" {
		t, err := billing.LoadRatesFile(cfg.RatesFile)
		if err != nil {
			log.Error().Err(err).Msg("rates file invalid")
			os.Exit(exitcode.UsageError)
		}
		return pool, t
	}

	t, err := store.NewRateStore(pool).Snapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("loading rates failed")
		os.Exit(exitcode.StoreError)
	}
	if t.Len() == 0 {
		log.Warn().Msg("no service rates configured; every line item will be unrated")
	}
	return pool, t
}

// readFiles opens every input file and, when history is being written,
// drops files whose content digest was already recorded.
func readFiles(ctx context.Context, log zerolog.Logger, pool *pgxpool.Pool) ([]*model.RawTable, map[string]string) {
	start := time.Now()
	var runs *store.RunStore
	if cfg.Save && pool != nil {
		runs = store.NewRunStore(pool)
	}

	var tables []*model.RawTable
	shas := make(map[string]string)

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

		if runs != nil && !cfg.Force {
			seen, err := runs.FileSeen(ctx, sha)
			if err != nil {
				log.Error().Err(err).Msg("history lookup failed")
				os.Exit(exitcode.StoreError)
			}
			if seen {
				log.Info().Str("file", t.Source).Str("sha256", sha).
					Msg("file already processed, skipping (use --force to reprocess)")
				continue
			}
		}

		shas[t.Source] = sha
		tables = append(tables, t)
	}

	log.Info().Int("files", len(tables)).Dur("duration", time.Since(start)).Msg("files read")
	return tables, shas
}

// collectRecords re-runs cleaning to gather records for the archive. The
// pipeline already validated the mappings, so errors cannot occur here.
func collectRecords(tables []*model.RawTable, matcher *clean.Matcher) []model.CleanRecord {
	var records []model.CleanRecord
	for _, t := range tables {
		m, err := resolve.Table(t)
		if err != nil {
			continue
		}
		records = append(records, clean.Table(t, m, matcher).Records...)
	}
	return records
}

func printReport(res *pipeline.Result) {
	fmt.Println("=== visitbill report ===")
	for _, fb := range res.Files {
		fmt.Printf("%s: %d rows read, %d kept, %d rejected\n",
			fb.Source, fb.RowsRead, fb.RowsKept, fb.RowsRejected)
	}
	fmt.Printf("Clients: %d  Employees: %d  Services: %d\n",
		res.Summary.UniqueClients, res.Summary.UniqueEmployees, res.Summary.UniqueServices)

	if showRejects {
		fmt.Println("\nRejected rows:")
		for _, rej := range res.Rejected {
			fmt.Printf("  %s row %d: %s\n", rej.Source, rej.RowNumber, rej.Reason)
		}
	}

	fmt.Println("\nBilling:")
	for _, stmt := range res.Billing.Statements {
		fmt.Printf("%s\n", stmt.Client)
		for _, item := range stmt.Items {
			unit := "units"
			if item.Method == model.BillingHourly {
				unit = "hours"
			}
			if item.Unrated {
				fmt.Printf("  %-40s %5d %-6s UNRATED\n", item.Service, item.Quantity, unit)
				continue
			}
			fmt.Printf("  %-40s %5d %-6s @ %8s = %10s\n",
				item.Service, item.Quantity, unit, item.Rate.StringFixed(2), item.Amount.StringFixed(2))
		}
		fmt.Printf("  Total: %s\n", stmt.Total.StringFixed(2))
	}

	if len(res.Summary.UnratedServices) > 0 {
		fmt.Printf("\nServices with no configured rate: %v\n", res.Summary.UnratedServices)
	}
	fmt.Printf("\nGrand total: %s\n", res.Summary.GrandTotal.StringFixed(2))
}
