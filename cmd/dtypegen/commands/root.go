// Package commands implements the dtypegen command line.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/config"
	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/logger"
)

// usageLine is printed to stdout when the directories are missing
const usageLine = "ERROR, synopsis: dtypegen <input-directory> <output-directory>"

// rootOptions holds persistent flag values and the configuration loaded for the run
type rootOptions struct {
	verbose    int
	configPath string
	jsonLogs   bool
	force      bool

	cfg *config.Config
}

// NewRootCmd builds the dtypegen command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dtypegen <input-directory> <output-directory>",
		Short: "Generate datatype-specialized sources from *.dtype.* templates",
		Long: `dtypegen expands annotated template files into one source file per template,
specialized for each supported numeric datatype.

Every file matching *.dtype.* below the input directory is transformed and
written to the same relative location below the output directory, with the
".dtype" infix removed. A template is only regenerated when it is newer than
its output.

Template directives:
  //Supported datatypes: float int8_t    Datatypes this template supports
  CREATE_INITIALIZER(name)               Replaced by the function table
  // Repeat for each data type           Starts a region copied per datatype
  // End repeat                          Ends the region
  <DATATYPE> <DATATYPE_UPPER>            Placeholders inside a region

Examples:
  dtypegen src/templates build/gen       # Regenerate stale outputs
  dtypegen --force src/templates gen     # Regenerate everything
  dtypegen check src/templates gen       # Fail if outputs are out of date
  dtypegen watch src/templates gen       # Regenerate on change`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, args)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.CountVarP(&opts.verbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	pf.StringVar(&opts.configPath, "config", "", "Config file merged above project and user config")
	pf.BoolVar(&opts.jsonLogs, "json-logs", false, "Emit JSON logs instead of console output")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Regenerate every template regardless of timestamps")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the command line and returns the process exit status
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	// The usage line is already on stdout
	if !errors.IsUsageError(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(stderr, "Hint: %s\n", hint)
		}
	}
	return 1
}

// setup initializes logging and loads configuration before any command runs
func (o *rootOptions) setup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if err := logger.InitializeWriter(out, o.jsonLogs, o.verbose); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Logger initialized", "verbosity", logger.LevelName(o.verbose))

	// version and the usage line work without a readable config
	if cmd.Name() == "version" || (takesDirectories(cmd) && len(args) < 2) {
		return nil
	}

	config.SetExplicitPath(o.configPath)
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if cfg.Log.JSON && !o.jsonLogs {
		if err := logger.InitializeWriter(out, true, o.verbose); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}
	logger.SetTheme(cfg.Log.Theme)
	o.cfg = cfg
	return nil
}

// newDriver validates the configuration and assembles a build driver
func (o *rootOptions) newDriver(inputRoot, outputRoot string, force bool) (*build.Driver, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, errors.WithHint(err, "run dtypegen config validate for details")
	}
	gen, err := o.cfg.NewGenerator(o.verbose, logger.ComponentLogger("generator"))
	if err != nil {
		return nil, err
	}
	return build.NewDriver(o.cfg.BuildOptions(inputRoot, outputRoot, force), gen, logger.ComponentLogger("build")), nil
}

// takesDirectories reports whether cmd is run with input and output directories
func takesDirectories(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "check", "watch":
		return true
	}
	return !cmd.HasParent()
}

// directories returns the input and output roots or reports a usage error
func directories(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) < 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return "", "", errors.ErrUsage
	}
	if len(args) > 2 {
		logger.Warnw("Ignoring extra arguments", logger.FieldCount, len(args)-2)
	}
	return args[0], args[1], nil
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, args []string) error {
	in, out, err := directories(cmd, args)
	if err != nil {
		return err
	}

	driver, err := opts.newDriver(in, out, opts.force)
	if err != nil {
		return err
	}

	report, err := driver.Run()
	if report != nil {
		printReport(cmd.OutOrStdout(), report, opts.verbose)
	}
	return err
}
