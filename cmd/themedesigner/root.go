package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/themedesigner/adapters/idgen"
	"github.com/artpar/themedesigner/adapters/markup"
	"github.com/artpar/themedesigner/app"
	"github.com/artpar/themedesigner/bootstrap"
	"github.com/artpar/themedesigner/config"
	"github.com/artpar/themedesigner/domain/field"
)

var (
	// Global flags
	cfgFile string
)

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "themedesigner",
	Short: "Theme catalogue settings and per-record field storage",
	Long: `themedesigner validates and stores the global settings of a theme
catalogue and the custom field values attached to each record.

Quick start:
  themedesigner admin hash-password   # Generate admin.password_hash
  themedesigner serve                 # Start the admin API

Management:
  themedesigner settings show
  themedesigner fields list`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "themedesigner.yaml", "config file path")
}

// services is what the management commands work against.
type services struct {
	cfg      *config.Config
	stores   *bootstrap.Stores
	fields   *app.FieldService
	settings *app.SettingsService
}

func (s *services) Close() error {
	return s.stores.Close()
}

// openServices loads the configuration and opens the configured database.
// Logs go to stderr at warn level so command output stays clean.
func openServices(ctx context.Context) (*services, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver == "memory" {
		return nil, fmt.Errorf("database.driver is 'memory'; management commands need a persistent database")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	stores, err := bootstrap.OpenStores(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	filter := markup.New()
	reg, err := bootstrap.BuildRegistry(cfg.Fields, field.DefaultSanitizers(filter.StripTags), logger)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("build field managers: %w", err)
	}

	s := &services{
		cfg:    cfg,
		stores: stores,
		fields: app.NewFieldService(app.FieldDeps{
			Meta:   stores.Meta,
			IDGen:  idgen.UUID{},
			Logger: logger,
		}, reg),
		settings: app.NewSettingsService(app.SettingsDeps{
			Store:  stores.Settings,
			Markup: filter,
			Logger: logger,
		}),
	}
	if err := s.settings.Load(ctx); err != nil {
		stores.Close()
		return nil, err
	}
	return s, nil
}

// parsePairs turns key=value arguments into a map.
func parsePairs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		out[k] = v
	}
	return out, nil
}
