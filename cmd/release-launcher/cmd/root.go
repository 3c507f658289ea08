package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/release-launcher/internal/config"
	"github.com/oshokin/release-launcher/internal/service/launcher"
	"github.com/oshokin/release-launcher/internal/version"
)

// Exit codes of the launcher process.
const (
	exitOK      = 0
	exitFailure = 1
)

// newRootCmd builds the command that checks for a newer release, applies it
// and runs the application.
func newRootCmd() *cobra.Command {
	options := new(launcher.Options)

	rootCmd := &cobra.Command{
		Use:   "release-launcher",
		Short: "Update the application from its latest release and run it.",
		Long: `Reads the installed version from the "version" file next to the launcher,
asks the GitHub release feed for the latest release and, when the versions differ,
downloads the release archive and merges it into the installation directory.
The application is started afterwards in any case except a failed update.

When the release feed cannot be reached the installed version is started as is.
Settings are read from ` + config.DefaultConfigFilename + ` in the installation directory when present.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		// Run failures are logged by the launcher; usage errors are printed by execute.
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return launcher.Run(ctx, options)
		},
	}

	rootCmd.Flags().StringVarP(&options.ConfigPath, "config", "c", "",
		"path to settings file (default: "+config.DefaultConfigFilename+" in the installation directory)")

	// Hidden flag to run against another installation, mostly for debugging.
	rootCmd.Flags().StringVar(&options.Root, "root", "", "installation directory override")

	err := rootCmd.Flags().MarkHidden("root")
	if err != nil {
		panic(err)
	}

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the release-launcher CLI and exits with non-zero status on error.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	if !loggedByLauncher(err) {
		rootCmd.PrintErrln("Error:", err)
	}

	return exitFailure
}

// loggedByLauncher reports whether err came out of launcher.Run.
func loggedByLauncher(err error) bool {
	return errors.Is(err, launcher.ErrConfiguration) ||
		errors.Is(err, launcher.ErrUpdateFailed) ||
		errors.Is(err, launcher.ErrLaunchFailed)
}
