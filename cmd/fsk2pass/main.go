// Package main provides the entry point for the fsk2pass CLI tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-edge"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const rootLong = `fsk2pass imports the accounts of an F-Secure KEY export (.fsk)
into pass, the standard unix password manager.

Every account is inserted with "pass insert --multiline" under
<group>/<service>. The password is the first line of the entry; URL,
username, notes and card details follow as "Label: value" lines unless
--no-notes is given. Secrets are written to the standard input of pass and
never appear on a command line.

Exit status:
  0  every account was imported
  1  the export or the configuration could not be read
  2  invalid usage (unknown flag, missing filename)
  3  the import finished but some accounts failed
  130 the import was interrupted

Examples:
  # Import into personal/<service>
  fsk2pass export.fsk

  # Import into work/<service>, overwriting existing entries
  fsk2pass --force --group work export.fsk

  # Only store passwords
  fsk2pass --no-notes export.fsk

  # Show what would be imported
  fsk2pass --dry-run export.fsk`

const versionTemplate = `{{.Name}} {{.Version}}
Git commit: {{gitCommit}}
Build date: {{buildDate}}
Go version: {{goVersion}}
OS/Arch:    {{osArch}}
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := defaultImportFlags()

	cmd := &cobra.Command{
		Use:     "fsk2pass [options] <filename>",
		Short:   "Import F-Secure KEY exports into pass",
		Long:    rootLong,
		Version: Version,
		Args:    requireFilename,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(versionTemplate)
	cobra.AddTemplateFuncs(versionFuncs)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Disable completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags.register(cmd)
	return cmd
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return exitCode(cmd, cmd.ExecuteContext(ctx), stderr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func exitCode(cmd *cobra.Command, err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	code := classify(err)
	if !isLogged(err) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	if code == ExitUsage {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return code
}
