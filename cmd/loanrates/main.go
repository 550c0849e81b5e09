package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantmind-br/loanrates-go/internal/app"
	"github.com/quantmind-br/loanrates-go/internal/config"
	"github.com/quantmind-br/loanrates-go/internal/fetcher"
	"github.com/quantmind-br/loanrates-go/internal/output"
	"github.com/quantmind-br/loanrates-go/internal/sources"
	"github.com/quantmind-br/loanrates-go/internal/utils"
	"github.com/quantmind-br/loanrates-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NoRatesMessage is printed when no source produced a rate
const NoRatesMessage = "No rates collected. Try adjusting selectors or adding more banks."

// errMissingSources is returned when --config is not given
var errMissingSources = errors.New("a sources file is required: pass --config banks.yaml")

// cliOptions holds the flags that are not bound to viper
type cliOptions struct {
	sourcesFile  string
	settingsFile string
	verbose      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with a fresh viper instance
func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "loanrates --config banks.yaml",
		Short: "Collect loan APRs from bank websites",
		Long: `loanrates fetches each bank page listed in a sources file, extracts the
advertised annual percentage rate with CSS, regex or JSON-path extractors
and prints the collected rates sorted from cheapest to most expensive.

Results can also be written to a CSV or JSON file with --out.`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.sourcesFile, "config", "c", "", "Sources file listing banks and extractors (.yaml, .yml or .json)")
	flags.StringVar(&opts.settingsFile, "settings", "", "Settings file (default is ~/.loanrates/loanrates.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("out", "o", "", "Also write results to a file; .json writes JSON, anything else CSV")
	rootCmd.Flags().StringP("format", "f", config.DefaultOutputFormat, "Console format: table, csv or json")
	rootCmd.Flags().Duration("timeout", config.DefaultFetchTimeout, "Per-source fetch timeout")
	rootCmd.Flags().IntP("concurrency", "j", config.DefaultWorkers, "Max sources fetched at once (0 = all)")
	rootCmd.Flags().Int("retries", config.DefaultMaxRetries, "Retries for transient HTTP failures")
	rootCmd.Flags().Float64("rate-limit", config.DefaultRateLimit, "Max requests per second across sources (0 = unlimited)")
	rootCmd.Flags().String("user-agent", "", "Custom User-Agent")
	rootCmd.Flags().String("proxy", "", "Proxy URL")

	_ = v.BindPFlag("output.path", rootCmd.Flags().Lookup("out"))
	_ = v.BindPFlag("output.format", rootCmd.Flags().Lookup("format"))
	_ = v.BindPFlag("fetch.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = v.BindPFlag("concurrency.workers", rootCmd.Flags().Lookup("concurrency"))
	_ = v.BindPFlag("fetch.max_retries", rootCmd.Flags().Lookup("retries"))
	_ = v.BindPFlag("fetch.rate_limit", rootCmd.Flags().Lookup("rate-limit"))
	_ = v.BindPFlag("fetch.user_agent", rootCmd.Flags().Lookup("user-agent"))
	_ = v.BindPFlag("fetch.proxy_url", rootCmd.Flags().Lookup("proxy"))

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads settings into v, honouring --settings
func loadConfig(v *viper.Viper, opts *cliOptions) (*config.Config, error) {
	if opts.settingsFile != "" {
		v.SetConfigFile(utils.ExpandPath(opts.settingsFile))
	}
	cfg, err := config.LoadFrom(v, config.ConfigDir(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadSources reads and validates the sources file named by --config
func loadSources(opts *cliOptions) (*sources.File, error) {
	if opts.sourcesFile == "" {
		return nil, errMissingSources
	}
	file, err := sources.NewLoader().Load(utils.ExpandPath(opts.sourcesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	return file, nil
}

func newLogger(cfg *config.Config, verbose bool, w io.Writer) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  w,
		Verbose: verbose,
	})
}

func run(cmd *cobra.Command, v *viper.Viper, opts *cliOptions) error {
	cfg, err := loadConfig(v, opts)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	file, err := loadSources(opts)
	if err != nil {
		return err
	}
	srcs := file.Sources()

	// Without -v only warnings reach the console; the progress bar reports the rest.
	if !opts.verbose && cfg.Logging.Level == config.DefaultLogLevel {
		cfg.Logging.Level = "warn"
	}
	log := newLogger(cfg, opts.verbose, cmd.ErrOrStderr())
	for _, w := range file.Warnings() {
		log.Warn().Err(w).Msg("Extractor will be skipped")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:    cfg.Fetch.Timeout,
		MaxRetries: cfg.Fetch.MaxRetries,
		UserAgent:  cfg.Fetch.UserAgent,
		ProxyURL:   cfg.Fetch.ProxyURL,
		RateLimit:  cfg.Fetch.RateLimit,
		Burst:      cfg.Fetch.Burst,
	})
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer client.Close()

	orchOpts := app.OrchestratorOptions{
		Fetcher: client,
		Timeout: cfg.Fetch.Timeout,
		Workers: cfg.Concurrency.Workers,
		Logger:  log,
	}

	finishProgress := func() {}
	if !opts.verbose {
		bar := utils.NewProgressBarTo(cmd.ErrOrStderr(), len(srcs), utils.DescFetching)
		orchOpts.OnResult = func(app.SourceResult) {
			_ = bar.Add(1)
		}
		finishProgress = func() { _ = bar.Finish() }
	}

	orchestrator, err := app.NewOrchestrator(orchOpts)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	start := time.Now()
	records := orchestrator.RunAll(ctx, srcs)
	finishProgress()
	log.Debug().
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Collection finished")

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, NoRatesMessage)
		return nil
	}

	records = output.SortByAPR(records)

	if cfg.Output.Path != "" {
		path, err := output.WriteFile(cfg.Output.Path, records)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Int("records", len(records)).Msg("Results written")
	}

	return output.Render(out, format, records)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
