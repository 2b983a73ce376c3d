package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moviesearcher/config"
	"github.com/s0up4200/moviesearcher/filter"
	"github.com/s0up4200/moviesearcher/omdb"
	"github.com/s0up4200/moviesearcher/poster"
	"github.com/s0up4200/moviesearcher/session"
)

var (
	cfgFile      string
	cfg          *config.Config
	logger       zerolog.Logger
	omdbClient   *omdb.Client
	posterViewer *poster.Viewer
	autoSave     *filter.ExprFilter

	// Command flags
	apiKey    string
	outputDir string
	throttle  time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviesearcher",
	Short: "Look movies up on OMDb from the terminal",
	Long: `moviesearcher asks for a movie title, looks it up on the OMDb movie database
and prints its details. After each result it offers to open the poster and to
save the details as a JSON file. Type 'exit' to quit.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PreRunE:      initializeApp,
	RunE:         runSearch,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OMDb API key (overrides "+config.APIKeyEnv+")")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "directory saved movie files are written to")
	rootCmd.Flags().DurationVar(&throttle, "throttle", config.DefaultThrottle, "pause between lookups")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line overrides
	if cmd.Flags().Changed("api-key") {
		cfg.OMDb.APIKey = apiKey
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Search.OutputDir = outputDir
	}
	if cmd.Flags().Changed("throttle") {
		if throttle < 0 {
			return fmt.Errorf("--throttle must not be negative: %s", throttle)
		}
		cfg.Search.Throttle = throttle
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	omdbClient, err = omdb.NewClient(cfg.OMDb.APIKey, logger,
		omdb.WithBaseURL(cfg.OMDb.URL),
		omdb.WithTimeout(cfg.OMDb.Timeout),
		omdb.WithUserAgent("moviesearcher/"+appVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to create OMDb client: %w", err)
	}

	posterViewer = poster.NewViewer(logger)

	autoSave = nil
	if strings.TrimSpace(cfg.Search.AutoSave) != "" {
		autoSave, err = filter.CompileExprFilter(cfg.Search.AutoSave)
		if err != nil {
			return fmt.Errorf("invalid auto-save rule: %w", err)
		}
		logger.Info().Str("rule", autoSave.String()).Msg("Auto-save rule enabled")
	}

	logger.Debug().
		Str("url", cfg.OMDb.URL).
		Dur("throttle", cfg.Search.Throttle).
		Str("output_dir", cfg.Search.OutputDir).
		Msg("Configuration loaded")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.WarnLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newSession builds an interactive session on the command's input and output.
func newSession(cmd *cobra.Command) *session.Session {
	opts := session.Options{
		OutputDir: cfg.Search.OutputDir,
		Throttle:  cfg.Search.Throttle,
	}
	if autoSave != nil {
		opts.AutoSave = autoSave
	}

	return session.New(cmd.InOrStdin(), cmd.OutOrStdout(), omdbClient, posterViewer, logger, opts)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger.Info().Msg("Starting interactive search")
	defer func() {
		if err := posterViewer.Cleanup(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove poster files")
		}
	}()
	return newSession(cmd).Run(cmd.Context())
}
