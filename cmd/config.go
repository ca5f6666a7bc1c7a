package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"video-to-mp3/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration entries",
	Long: `Show or change entries in the configuration file.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Examples:
  video-to-mp3 config show
  video-to-mp3 config get bitrate
  video-to-mp3 config set bitrate 256k
  video-to-mp3 config set extensions ".mp4 .mkv"`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, DefaultOutput)
	},
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, out OutputWriter) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single config entry, or all entries without a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return RunConfigGetWithDependencies(cfg, configPath(), key, DefaultOutput)
	},
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	if key != "" {
		value, err := mgr.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range config.Keys() {
		value, _ := mgr.Get(k)
		fmt.Fprintf(w, "%s\t%s\n", k, value)
	}
	return w.Flush()
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a config entry and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(cfg, configPath(), args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	if err := mgr.Set(key, value); err != nil {
		return err
	}

	current, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %s in %s\n", key, current, configPath)
	return nil
}
