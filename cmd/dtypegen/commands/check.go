package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/dtypegen/errors"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <input-directory> <output-directory>",
		Short: "Check if generated files are up to date",
		Long: `Check if generated files match their templates.

Every template is transformed in memory and compared byte for byte with the
existing output. Nothing is written and timestamps are ignored.

Run with -v to print a line diff for every output that differs.

Exit codes:
  0 - Generated files are up to date
  1 - Files are missing or out of date, or the check failed

Examples:
  dtypegen check src/templates build/gen`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *rootOptions, args []string) error {
	in, out, err := directories(cmd, args)
	if err != nil {
		return err
	}

	driver, err := opts.newDriver(in, out, false)
	if err != nil {
		return err
	}

	res, err := driver.Check()
	if err != nil {
		return err
	}
	printCheck(cmd.OutOrStdout(), res, opts.verbose)

	if !res.UpToDate {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrOutOfDate, "%d missing, %d differ", len(res.Missing), len(res.Differences)),
			"run dtypegen --force %s %s to regenerate", in, out)
	}
	return nil
}
