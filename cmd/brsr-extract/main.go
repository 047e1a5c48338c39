// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the brsr-extract CLI. The root
// command extracts one report or a directory of reports into the CSV
// table; subcommands export, index and inspect that table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/internal/batch"
	"github.com/pdiddy/brsr-extractor/internal/convert"
	"github.com/pdiddy/brsr-extractor/internal/extract"
	"github.com/pdiddy/brsr-extractor/internal/logging"
	"github.com/pdiddy/brsr-extractor/internal/table"
	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig and logger are populated before any command runs.
var (
	appConfig = types.DefaultConfig()
	logger    = zap.NewNop()
)

// rootCmd extracts disclosures from the reports named by its argument.
var rootCmd = &cobra.Command{
	Use:   "brsr-extract <pdf_path_or_folder>",
	Short: "Extract BRSR workforce, board and attrition figures from report PDFs",
	Long: `brsr-extract reads Business Responsibility and Sustainability Reports and
pulls out the gender split of the workforce, board and key management
personnel composition, and three years of permanent employee turnover.

Given a PDF it processes that report; given a directory it processes every
PDF below it. Each report becomes one row of brsr_simple_analysis.csv in the
current directory, keyed by company name. Re-running a report replaces its
row in place.

Scanned (image-only) reports have no text layer. They are reported as
skipped, leave no row in the table and make the run exit non-zero.

A directory that shares a name with a subcommand (index, export, show,
version) is processed when it exists; ./index names it explicitly.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Usage()
			return fmt.Errorf("expected one PDF file or directory, got %d arguments", len(args))
		}
		return nil
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		appConfig, logger = cfg, log
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	RunE: runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./brsr-extract.yaml or ~/.config/brsr-extract/brsr-extract.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn or error")
	rootCmd.Flags().String("backend", "", "text conversion backend: pdf or markitdown")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("backend", rootCmd.Flags().Lookup("backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("brsr-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "brsr-extract"))
		}
	}

	defaults := types.DefaultConfig()
	viper.SetDefault("backend", string(defaults.Conversion.Backend))
	viper.SetDefault("runtime", defaults.Conversion.Runtime)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	viper.SetEnvPrefix("BRSR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

// loadConfig types the viper settings. Output paths and the document
// extension are fixed and not configurable.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	cfg.Conversion.Backend = types.ConversionBackend(strings.ToLower(viper.GetString("backend")))
	cfg.Conversion.Runtime = viper.GetString("runtime")
	cfg.Log.Level = viper.GetString("log.level")
	cfg.Log.Format = viper.GetString("log.format")

	if !cfg.Conversion.Backend.Valid() {
		return cfg, fmt.Errorf("invalid backend %q: use %s or %s", cfg.Conversion.Backend, types.BackendPDF, types.BackendMarkitdown)
	}
	return cfg, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	conv, err := convert.New(appConfig.Conversion, logger)
	if err != nil {
		return err
	}
	ex, err := extract.New(logger)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Converter: conv,
		Extractor: ex,
		Store:     table.Open(appConfig.Store.TablePath, logger),
		Extension: appConfig.Conversion.Extension,
		Log:       logger,
		Out:       cmd.OutOrStdout(),
	}

	summary, err := runner.Process(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d document(s) could not be read", summary.Failed, summary.Found)
	}
	return nil
}

// pathArgs rewrites a lone argument that names both a subcommand and an
// existing file or directory into an explicit relative path, so the root
// command processes it instead of running the subcommand.
func pathArgs(cmd *cobra.Command, args []string) []string {
	if len(args) != 1 {
		return args
	}
	sub, _, err := cmd.Find(args)
	if err != nil || sub == cmd {
		return args
	}
	if _, err := os.Stat(args[0]); err != nil {
		return args
	}
	return []string{"." + string(filepath.Separator) + args[0]}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(pathArgs(rootCmd, os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
