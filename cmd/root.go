package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goosewin/nestprop/internal/config"
	"github.com/goosewin/nestprop/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var logger *logging.Logger

var rootCmd = &cobra.Command{
	Use:               "nestprop",
	Short:             "Proposal strategies for nested sampling",
	Long:              "Nestprop builds sampling proposals, manages their output directories and records runs.",
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if err := loadConfigForCwd(); err != nil {
		return err
	}

	l, err := logging.New(logging.Options{
		Level:  config.String("logging.level", "debug"),
		File:   config.String("logging.file", ""),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(l.Logger)
	return nil
}

func loadConfigForCwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve current directory: %w", err)
	}
	_, err = config.LoadConfig(cwd)
	return err
}
