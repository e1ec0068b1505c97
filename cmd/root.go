package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trainhub/trainctl/pkg/allowlist"
	"github.com/trainhub/trainctl/pkg/client"
	"github.com/trainhub/trainctl/pkg/config"
	"github.com/trainhub/trainctl/pkg/secrets"
	"github.com/trainhub/trainctl/pkg/trainhub"
)

var (
	// Global flags
	cfgFile    string
	jsonOutput bool
	verbose    bool
	noColor    bool

	// Global variables
	cfg              *config.Config
	apiClient        *client.Client
	api              *trainhub.API
	allowlistChecker *allowlist.Checker
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trainctl",
	Short: "A CLI tool for the TrainHub training platform",
	Long: `trainctl is a command-line interface for the TrainHub training platform.
It provides commands for managing users, sessions, questionnaires,
response processors, and enrollments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Local .env files hold API URL and token overrides in dev setups
		_ = godotenv.Load()

		// Initialize allowlist checker
		allowlistChecker = allowlist.NewChecker()

		// Check if command is allowed (skip for help/version which are always allowed)
		if cmd.Name() != "help" && cmd.Name() != "version" {
			// Build full command path for nested commands
			cmdPath := cmd.Name()
			if cmd.Parent() != nil && cmd.Parent().Name() != "trainctl" {
				cmdPath = cmd.Parent().Name() + " " + cmd.Name()
			}

			if err := allowlistChecker.Check(cmdPath); err != nil {
				return err
			}
		}

		// Skip config loading for commands that don't need it
		switch cmd.Name() {
		case "configure", "version", "help", "template", "allowlist":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "template" || cmd.Parent().Name() == "allowlist") {
			return nil
		}

		// Load configuration
		var err error
		if cfgFile != "" {
			// Load from custom config file path
			cfg, err = config.LoadFromPath(cfgFile)
		} else {
			// Load from default location (~/.trainctl/config.yaml)
			cfg, err = config.Load()
		}

		if err != nil {
			return fmt.Errorf("failed to load config: %w\nRun 'trainctl configure' to set up the API connection", err)
		}

		apiClient = client.New(cfg.APIURL, clientOptions()...)
		api = trainhub.New(apiClient)

		return nil
	},
}

// clientOptions assembles the call-layer options from the loaded config
// and global flags.
func clientOptions() []client.Option {
	tokens := secrets.NewTokenSource(secrets.NewStore(), cfg.Email, cfg.Token)

	opts := []client.Option{
		client.WithTokenSource(tokens),
		client.WithResolver(trainhub.NewResolver()),
	}

	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}

	if verbose {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
		logger := zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		opts = append(opts, client.WithLogger(logger))
	}

	return opts
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Exit codes:
//   - 0: Success
//   - 1: Authentication failure
//   - 2: Validation error
//   - 3: API error
//   - 4: Configuration error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Determine exit code based on error type
		exitCode := getExitCode(err)
		os.Exit(exitCode)
	}
}

// getExitCode determines the appropriate exit code based on the error type
func getExitCode(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return 1 // Auth failure
		case apiErr.StatusCode == 400 || apiErr.StatusCode == 422:
			return 2 // Validation error
		case apiErr.StatusCode == 0 || apiErr.StatusCode >= 500:
			return 3 // API error
		}
		return 3
	}

	errMsg := err.Error()

	if containsAny(errMsg, []string{"authentication", "credentials", "unauthorized", "not logged in"}) {
		return 1 // Auth failure
	}

	if containsAny(errMsg, []string{"validation", "invalid", "required"}) {
		return 2 // Validation error
	}

	if containsAny(errMsg, []string{"config", "configuration"}) {
		return 4 // Config error
	}

	// Default error
	return 1
}

// containsAny checks if the string contains any of the substrings
func containsAny(s string, substrs []string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trainctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
