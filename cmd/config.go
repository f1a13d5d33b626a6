package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goosewin/nestprop/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the global config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show which config files were loaded",
	Args:  cobra.NoArgs,
	RunE:  runConfigPaths,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd, configPathsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("config key is required")
	}

	value, ok := config.GetConfig(key)
	if !ok {
		return fmt.Errorf("config key not found: %s", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("config key is required")
	}
	value := strings.TrimSpace(args[1])
	if value == "" {
		return errors.New("config value is required")
	}

	if err := config.SetConfig(key, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated config: %s\n", key)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	items, err := config.ListConfig()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	for _, key := range keys {
		fmt.Fprintf(out, "%s=%s\n", key, items[key])
	}
	return nil
}

func runConfigPaths(cmd *cobra.Command, args []string) error {
	paths := config.CurrentPaths()
	out := cmd.OutOrStdout()
	for _, entry := range []struct{ label, path string }{
		{"default", paths.Default},
		{"global", paths.Global},
		{"project", paths.Project},
	} {
		path := entry.path
		if path == "" {
			path = "(none)"
		}
		fmt.Fprintf(out, "%s: %s\n", entry.label, path)
	}
	return nil
}
