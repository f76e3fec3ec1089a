// Smart Trailer consumer.
//
// Finds the trailer weight entity through the service registry and the
// in-vehicle digital twin, negotiates a managed subscription for it and
// streams the updates until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/smart-trailer/internal/infrastructure/config"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/influxdb"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/logging"
	"github.com/nerrad567/smart-trailer/internal/infrastructure/metrics"
	"github.com/nerrad567/smart-trailer/internal/pipeline"
	"github.com/nerrad567/smart-trailer/internal/stream"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"
	configEnv         = "SMARTTRAILER_CONFIG"

	// freqArgPrefix is the legacy positional form, e.g. "freq_ms=2000".
	freqArgPrefix = "freq_ms="

	shutdownTimeout = 5 * time.Second
)

// options are the command-line overrides applied on top of the config file.
type options struct {
	configPath string
	freqMS     int
	logLevel   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "smarttrailer [freq_ms=<n>]",
		Short: "Stream trailer weight updates from the in-vehicle digital twin",
		Long: `Stream trailer weight updates from the in-vehicle digital twin.

The consumer asks the service registry for the digital twin, looks up an
endpoint that supports managed subscribe for the trailer weight entity,
negotiates a broker and topic with it and then streams the topic until
interrupted.

Examples:
  smarttrailer
  smarttrailer --config /etc/smarttrailer/config.yaml
  smarttrailer --freq-ms 2000
  smarttrailer freq_ms=2000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				freq, err := parseFreqArg(args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("freq-ms") {
					opts.freqMS = freq
				}
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $"+configEnv+" or "+defaultConfigPath+")")
	cmd.Flags().IntVar(&opts.freqMS, "freq-ms", 0, "requested update interval in milliseconds")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

// parseFreqArg parses the legacy "freq_ms=<n>" argument.
func parseFreqArg(arg string) (int, error) {
	value, ok := strings.CutPrefix(arg, freqArgPrefix)
	if !ok {
		return 0, fmt.Errorf("unexpected argument %q, want %s<n>", arg, freqArgPrefix)
	}
	freq, err := strconv.Atoi(value)
	if err != nil || freq <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be a positive integer", strings.TrimSuffix(freqArgPrefix, "="), value)
	}
	return freq, nil
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, opts *options) error {
	log := logging.Default()
	log.Info("starting smart trailer consumer",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(log)}

	if cfg.Metrics.Enabled {
		m := metrics.New()
		srv := metrics.NewServer(cfg.Metrics.Address, cfg.Metrics.Path, m)
		if startErr := srv.Start(); startErr != nil {
			return fmt.Errorf("starting metrics server: %w", startErr)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Error("error stopping metrics server", "error", shutdownErr)
			}
		}()
		log.Info("metrics server listening", "address", srv.Addr(), "path", cfg.Metrics.Path)
		pipelineOpts = append(pipelineOpts, pipeline.WithRecorder(m))
	}

	if cfg.InfluxDB.Enabled {
		influxClient, connectErr := influxdb.Connect(cfg.InfluxDB)
		if connectErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connectErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		pipelineOpts = append(pipelineOpts, pipeline.WithSink(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	err = pipeline.New(cfg, pipelineOpts...).Run(ctx)
	if err != nil && ctx.Err() != nil {
		logInterrupted(log, err)
		err = nil
	}
	if err != nil {
		return err
	}

	log.Info("smart trailer consumer stopped")
	return nil
}

// logInterrupted reports an error returned after shutdown was requested.
// Teardown failures still exit cleanly but are logged as errors.
func logInterrupted(log *logging.Logger, err error) {
	if errors.Is(err, stream.ErrTransport) {
		log.Error("shutdown failed", "error", err)
		return
	}
	log.Info("interrupted", "error", err)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(getConfigPath(opts.configPath))
	if err != nil {
		return nil, err
	}

	if opts.freqMS > 0 {
		cfg.Subscription.FrequencyMS = opts.freqMS
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getConfigPath picks the flag, then $SMARTTRAILER_CONFIG, then the default
// path. A missing default file means built-in defaults.
func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv(configEnv); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return defaultConfigPath
}
