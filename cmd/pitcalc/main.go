package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pitgo/regime-calculator/internal/api"
	"github.com/pitgo/regime-calculator/internal/calculation"
	"github.com/pitgo/regime-calculator/internal/config"
	"github.com/pitgo/regime-calculator/internal/domain"
	"github.com/pitgo/regime-calculator/internal/output"
	"github.com/pitgo/regime-calculator/internal/store"
)

var log = logrus.New()

// engineLogger adapts logrus onto the engine's Logger interface.
type engineLogger struct{ *logrus.Logger }

func (l engineLogger) Debugf(format string, args ...any) { l.Logger.Debugf(format, args...) }
func (l engineLogger) Infof(format string, args ...any)  { l.Logger.Infof(format, args...) }
func (l engineLogger) Warnf(format string, args ...any)  { l.Logger.Warnf(format, args...) }
func (l engineLogger) Errorf(format string, args ...any) { l.Logger.Errorf(format, args...) }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "pitcalc",
		Short: "Compare Polish business tax regimes for a projected year",
		Long: `pitcalc evaluates a revenue/cost forecast with planned investments under
the three Polish personal-business tax regimes (ryczałt, liniowy, skala)
and reports the net cash in hand for each.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCalculateCmd())
	root.AddCommand(newExampleCmd())
	root.AddCommand(newRatesCmd())
	root.AddCommand(newServeCmd())
	return root
}

// loadRates reads rate tables from the optional --rates file, falling back
// to the seeded statutory defaults.
func loadRates(ratesFile string) ([]domain.RateConfig, error) {
	if ratesFile == "" {
		return config.DefaultRateConfigs(), nil
	}
	return config.LoadRateConfigs(ratesFile)
}

func newCalculateCmd() *cobra.Command {
	var (
		format    string
		ratesFile string
	)

	cmd := &cobra.Command{
		Use:   "calculate <scenario.yaml>",
		Short: "Run the three-regime comparison for a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rateConfigs, err := loadRates(ratesFile)
			if err != nil {
				return err
			}

			parser := config.NewInputParser()
			scenario, err := parser.LoadScenario(args[0], rateConfigs)
			if err != nil {
				return err
			}

			engine := calculation.NewEngine()
			engine.SetLogger(engineLogger{log})
			result, err := engine.CompareAll(scenario)
			if err != nil {
				return err
			}

			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %v)", format, output.AvailableFormatterNames())
			}
			data, err := formatter.Format(result)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json, csv)")
	cmd.Flags().StringVar(&ratesFile, "rates", "", "YAML file overriding the seeded rate tables")
	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print a ready-to-edit example scenario file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parser := config.NewInputParser()
			data, err := yaml.Marshal(parser.ExampleScenarioFile())
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}

func newRatesCmd() *cobra.Command {
	var ratesFile string

	cmd := &cobra.Command{
		Use:   "rates [year]",
		Short: "Show the statutory rate table for a fiscal year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rateConfigs, err := loadRates(ratesFile)
			if err != nil {
				return err
			}

			year := config.DefaultRateYear
			if len(args) == 1 {
				if _, err := fmt.Sscanf(args[0], "%d", &year); err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
			}
			rc, err := config.RatesForYear(rateConfigs, year)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(rc)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
	cmd.Flags().StringVar(&ratesFile, "rates", "", "YAML file overriding the seeded rate tables")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		port      string
		ratesFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			// .env is optional; environment wins over flags only for PORT.
			_ = godotenv.Load()
			if env := os.Getenv("PORT"); env != "" {
				port = env
			}

			rateConfigs, err := loadRates(ratesFile)
			if err != nil {
				return err
			}

			engine := calculation.NewEngine()
			engine.SetLogger(engineLogger{log})
			st := store.New(rateConfigs)
			handler := api.NewHandler(st, engine, log)
			router := api.NewRouter(handler)

			server := &http.Server{
				Addr:    ":" + port,
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("port", port).Info("starting server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.WithField("signal", sig.String()).Info("shutting down")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "8080", "listen port")
	cmd.Flags().StringVar(&ratesFile, "rates", "", "YAML file overriding the seeded rate tables")
	return cmd
}
