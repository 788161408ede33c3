package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ataraskov/pocket-registry/internal/api"
	"github.com/ataraskov/pocket-registry/internal/browser"
	"github.com/ataraskov/pocket-registry/internal/credentials"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information (injected at build time via ldflags)
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const (
	appName   = "pocket-registry"
	envPrefix = "POCKET_REGISTRY"
)

// app carries what every subcommand shares, built once flags are parsed
type app struct {
	cfg     *viper.Viper
	logger  *slog.Logger
	store   credentials.Store
	browser *browser.Browser
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: viper.New()}
	var configFile string

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Browse Docker Registry v2 repositories, tags and image metadata",
		Long: `A CLI to keep registry credentials and browse the repositories, tags and
image details of Docker Registry HTTP API v2 servers.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default "+filepath.Join(defaultConfigDir(), "config.yaml")+")")
	flags.String("credentials-file", filepath.Join(defaultConfigDir(), "credentials.yaml"), "File holding stored registry credentials")
	flags.Float64("rate-limit", 0, "Maximum registry requests per second (0 = unlimited)")
	flags.Duration("timeout", 0, "HTTP timeout per registry request (0 = none)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	for _, name := range []string{"credentials-file", "rate-limit", "timeout", "verbose"} {
		_ = a.cfg.BindPFlag(name, flags.Lookup(name))
	}

	a.cfg.SetEnvPrefix(envPrefix)
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newReposCmd(a),
		newTagsCmd(a),
		newInspectCmd(a),
	)

	return rootCmd
}

// setup reads the optional config file and builds logger, store and browser
func (a *app) setup(cmd *cobra.Command, configFile string) error {
	if configFile != "" {
		a.cfg.SetConfigFile(configFile)
	} else {
		a.cfg.AddConfigPath(defaultConfigDir())
		a.cfg.SetConfigName("config")
		a.cfg.SetConfigType("yaml")
	}
	if err := a.cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Setup logger
	logLevel := log.InfoLevel
	if a.cfg.GetBool("verbose") {
		logLevel = log.DebugLevel
	}
	a.logger = slog.New(log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          appName,
	}))

	credentialsFile := a.cfg.GetString("credentials-file")
	a.store = credentials.NewFileStore(credentialsFile)
	a.logger.Debug("Using credentials file", "path", credentialsFile)

	client := api.NewClient(api.ClientConfig{
		Timeout:           a.cfg.GetDuration("timeout"),
		RequestsPerSecond: a.cfg.GetFloat64("rate-limit"),
		Logger:            a.logger,
	})
	a.browser = browser.NewBrowser(browser.Config{
		Client: client,
		Logger: a.logger,
	})

	return nil
}

// endpoint resolves a stored service for the browsing commands
func (a *app) endpoint(service string) (api.Endpoint, error) {
	ep, err := credentials.Endpoint(a.store, service)
	if err != nil {
		if errors.Is(err, credentials.ErrMissingCredentials) {
			return api.Endpoint{}, fmt.Errorf("%w (add it with '%s add')", err, appName)
		}
		return api.Endpoint{}, err
	}
	return ep, nil
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
