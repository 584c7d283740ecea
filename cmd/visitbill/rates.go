package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gyeh/visitbill/internal/billing"
	"github.com/gyeh/visitbill/internal/exitcode"
	"github.com/gyeh/visitbill/internal/logging"
	"github.com/gyeh/visitbill/internal/model"
	"github.com/gyeh/visitbill/internal/store"
)

var (
	rateService string
	rateMethod  string
	rateValue   string
	ratesImport string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Manage configured service rates",
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured service rates",
	RunE:  runRatesList,
}

var ratesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the rate for one service",
	RunE:  runRatesSet,
}

var ratesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the rate for one service",
	RunE:  runRatesDelete,
}

var ratesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import rates from a YAML rates file",
	RunE:  runRatesImport,
}

func init() {
	f := ratesSetCmd.Flags()
	f.StringVar(&rateService, "service", "", "Service name (exact, case-sensitive)")
	f.StringVar(&rateMethod, "method", "hourly", "Billing method: hourly or unit")
	f.StringVar(&rateValue, "rate", "", "Rate as a decimal string, e.g. 41.45")
	_ = ratesSetCmd.MarkFlagRequired("service")
	_ = ratesSetCmd.MarkFlagRequired("rate")

	ratesDeleteCmd.Flags().StringVar(&rateService, "service", "", "Service name to delete")
	_ = ratesDeleteCmd.MarkFlagRequired("service")

	ratesImportCmd.Flags().StringVar(&ratesImport, "file", "", "YAML rates file to import")
	_ = ratesImportCmd.MarkFlagRequired("file")

	ratesCmd.AddCommand(ratesListCmd, ratesSetCmd, ratesDeleteCmd, ratesImportCmd)
	rootCmd.AddCommand(ratesCmd)
}

func ratesPool(ctx context.Context, log zerolog.Logger) *pgxpool.Pool {
	if cfg.DSN == "" {
		log.Error().Msg("--dsn or VISITBILL_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}
	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	return pool
}

func runRatesList(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	pool := ratesPool(ctx, log)
	defer pool.Close()

	rules, err := store.NewRateStore(pool).List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("listing rates failed")
		os.Exit(exitcode.StoreError)
	}

	if len(rules) == 0 {
		fmt.Println("No service rates configured.")
		return nil
	}
	for _, r := range rules {
		fmt.Printf("%-40s %-6s %10s\n", r.Service, r.Method, r.Rate.StringFixed(2))
	}
	return nil
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	method, err := model.ParseBillingMethod(rateMethod)
	if err != nil {
		log.Error().Err(err).Msg("invalid billing method")
		os.Exit(exitcode.UsageError)
	}
	rate, err := decimal.NewFromString(rateValue)
	if err != nil || rate.IsNegative() {
		log.Error().Str("rate", rateValue).Msg("rate must be a non-negative decimal")
		os.Exit(exitcode.UsageError)
	}

	pool := ratesPool(ctx, log)
	defer pool.Close()

	rule := model.RateRule{Service: rateService, Method: method, Rate: rate}
	if err := store.NewRateStore(pool).Upsert(ctx, rule); err != nil {
		log.Error().Err(err).Msg("saving rate failed")
		os.Exit(exitcode.StoreError)
	}

	fmt.Printf("Set %s: %s %s\n", rule.Service, rule.Method, rule.Rate.StringFixed(2))
	return nil
}

func runRatesDelete(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	pool := ratesPool(ctx, log)
	defer pool.Close()

	if err := store.NewRateStore(pool).Delete(ctx, rateService); err != nil {
		log.Error().Err(err).Msg("deleting rate failed")
		os.Exit(exitcode.StoreError)
	}

	fmt.Printf("Deleted %s\n", rateService)
	return nil
}

func runRatesImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	table, err := billing.LoadRatesFile(ratesImport)
	if err != nil {
		log.Error().Err(err).Msg("rates file invalid")
		os.Exit(exitcode.UsageError)
	}

	pool := ratesPool(ctx, log)
	defer pool.Close()

	rules := table.Rules()
	if err := store.NewRateStore(pool).Import(ctx, rules); err != nil {
		log.Error().Err(err).Msg("importing rates failed")
		os.Exit(exitcode.StoreError)
	}

	fmt.Printf("Imported %d service rates\n", len(rules))
	return nil
}
