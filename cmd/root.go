package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/prr/internal/generate"
	"github.com/joescharf/prr/internal/output"
	"github.com/joescharf/prr/internal/pdf"
	"github.com/joescharf/prr/internal/report"
	"github.com/joescharf/prr/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "prr",
	Short: "Project Review Reports - validate review forms and render them to PDF",
	Long: `prr validates project review submissions and turns them into
printable reports. It serves the review form over HTTP, renders reports
through an external HTML-to-PDF service, and keeps a history of every
report it generated.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/prr/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "prr")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PRR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	setDefaults(filepath.Join(home, ".config", "prr"))

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key with its default value.
func setDefaults(stateDir string) {
	viper.SetDefault("state_dir", stateDir)
	viper.SetDefault("db_path", filepath.Join(stateDir, "prr.db"))
	viper.SetDefault("port", 8080)
	viper.SetDefault("renderer.url", "http://localhost:5001")
	viper.SetDefault("renderer.timeout", pdf.DefaultTimeout)
	viper.SetDefault("report.locale", "en-US")
	viper.SetDefault("report.timezone", "Local")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Store is opened lazily so config/version/validate run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// historyStore returns the store when history is enabled, or nil.
func historyStore() (store.Store, error) {
	if !viper.GetBool("history.enabled") {
		return nil, nil
	}
	return getStore()
}

// newAssembler builds a report assembler from the report.* config keys.
func newAssembler() (*report.Assembler, error) {
	loc, err := loadLocation(viper.GetString("report.timezone"))
	if err != nil {
		return nil, err
	}
	return report.NewAssembler(
		report.WithLocale(report.ParseLocale(viper.GetString("report.locale"))),
		report.WithLocation(loc),
	), nil
}

func loadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid report.timezone %q: %w", name, err)
	}
	return loc, nil
}

// newPDFClient builds the rendering service client from the renderer.* keys.
func newPDFClient() *pdf.Client {
	return pdf.NewClient(viper.GetString("renderer.url"), viper.GetDuration("renderer.timeout"))
}

// newService wires the assembler, renderer and store. The store may be nil.
func newService(s store.Store) (*generate.Service, error) {
	a, err := newAssembler()
	if err != nil {
		return nil, err
	}
	return generate.NewService(a, newPDFClient(), s), nil
}
