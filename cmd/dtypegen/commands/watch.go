package commands

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/errors"
	"github.com/teranos/dtypegen/logger"
)

type watchOptions struct {
	then  string
	force bool
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	wopts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <input-directory> <output-directory>",
		Short: "Regenerate outputs whenever templates change",
		Long: `Run once, then watch the input directory and regenerate stale outputs
after every change to a template.

Changes are debounced (watch.debounce_ms) and runs are rate limited
(watch.max_runs_per_minute). Runs never overlap. Stop with Ctrl-C.

Examples:
  dtypegen watch src/templates gen
  dtypegen watch src/templates gen --then "make -C build"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, wopts, args)
		},
	}

	cmd.Flags().StringVar(&wopts.then, "then", "", "Command to run after each run that generated files")
	cmd.Flags().BoolVarP(&wopts.force, "force", "f", false, "Regenerate every template on the first run")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *rootOptions, wopts *watchOptions, args []string) error {
	in, out, err := directories(cmd, args)
	if err != nil {
		return err
	}

	hook, err := parseHook(wopts.then)
	if err != nil {
		return err
	}

	driver, err := opts.newDriver(in, out, false)
	if err != nil {
		return err
	}
	// --force applies to a single pass before watching starts
	if wopts.force {
		forced := build.NewDriver(withForce(driver.Options()), driver.Transformer(), logger.ComponentLogger("build"))
		report, err := forced.Run()
		if report != nil {
			printReport(cmd.OutOrStdout(), report, opts.verbose)
		}
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.ComponentLogger("watch")
	watchOpts := opts.cfg.WatchOptions()
	watchOpts.OnRun = func(report *build.Report, err error) {
		if report != nil {
			printReport(cmd.OutOrStdout(), report, opts.verbose)
		}
		if err != nil || report == nil || !report.Wrote() || len(hook) == 0 {
			return
		}
		if err := runHook(ctx, cmd, hook); err != nil {
			log.Errorw("Post-run command failed", "command", wopts.then, logger.FieldError, err)
		}
	}

	w, err := build.NewWatcher(driver, watchOpts)
	if err != nil {
		return err
	}
	log.Infow("Watching for template changes", logger.FieldInput, in, logger.FieldOutput, out)
	return w.Run(ctx)
}

func withForce(o build.Options) build.Options {
	o.Force = true
	return o
}

// parseHook splits a --then command line with shell quoting rules
func parseHook(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --then command %q", line)
	}
	return words, nil
}

func runHook(ctx context.Context, cmd *cobra.Command, words []string) error {
	c := exec.CommandContext(ctx, words[0], words[1:]...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}
