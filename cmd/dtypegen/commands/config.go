package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dtypegen/config"
	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/logger"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect dtypegen configuration",
		Long: `Display and validate dtypegen configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.config/dtypegen/dtypegen.toml)
3. Project config (dtypegen.toml, searched upward from the working directory)
4. --config <file>
5. Environment variables (DTYPEGEN_* prefix, e.g. DTYPEGEN_GENERATOR_STRICT_REGIONS)

Examples:
  dtypegen config show                 # Show effective configuration
  dtypegen config show --format json   # Same, as JSON
  dtypegen config validate             # Check values and unknown keys
  dtypegen config where                # Show where each value comes from`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts.cfg, format)
		},
	}
	show.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, opts.cfg)
		},
	}

	where := &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		RunE:  runConfigWhere,
	}

	cmd.AddCommand(show, validate, where)
	return cmd
}

func runConfigShow(cmd *cobra.Command, cfg *config.Config, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# dtypegen configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# dtypegen configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	for _, f := range config.ConfigFiles() {
		unknown, err := config.UnknownKeys(f.Path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			logger.Warnw("Unknown configuration key", "key", key, logger.FieldFile, f.Path)
			fmt.Fprintf(out, "⚠ Unknown key %s in %s\n", key, f.Path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	intro, err := config.GetIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]   Built-in defaults")
	fmt.Fprintf(out, "  2. [USER]      %s\n", config.UserConfigPath())
	fmt.Fprintf(out, "  3. [PROJECT]   ./%s (searches up directories)\n", config.FileName)
	fmt.Fprintln(out, "  4. [EXPLICIT]  --config <file>")
	fmt.Fprintf(out, "  5. [ENV]       %s_* environment variables\n", config.EnvPrefix)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Files in use:")
	if len(intro.Files) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, f := range intro.Files {
		fmt.Fprintf(out, "  [%s] %s\n", f.Source, f.Path)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Active configuration:")
	for _, s := range intro.Settings {
		origin := string(s.Source)
		if s.Source != config.SourceDefault {
			origin = fmt.Sprintf("%s %s", s.Source, s.SourcePath)
		}
		fmt.Fprintf(out, "  %-30s = %-24v (%s)\n", s.Key, s.Value, origin)
	}
	return nil
}
