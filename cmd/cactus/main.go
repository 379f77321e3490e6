package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cactus/internal/cli"
	cerrors "github.com/matzehuels/cactus/pkg/errors"
)

// Exit codes. Usage errors and bad documents are distinguished from missing
// resources and backend failures so scripts can branch on them.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitNotFound    = 3
	exitUnavailable = 4
	exitInterrupted = 130
)

// logLevelEnv overrides the default log level when neither --verbose nor
// --quiet is given.
const logLevelEnv = "CACTUS_LOG_LEVEL"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	report(os.Stderr, err)
	os.Exit(exitCode(err))
}

func run(ctx context.Context, args []string) error {
	var verbose, quiet bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(verbose, quiet, os.Getenv(logLevelEnv))
		if err != nil {
			return err
		}
		c.SetLogLevel(level)

		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// logLevel resolves the log level from the flags, falling back to env.
func logLevel(verbose, quiet bool, env string) (log.Level, error) {
	switch {
	case verbose:
		return cli.LogDebug, nil
	case quiet:
		return log.ErrorLevel, nil
	case strings.TrimSpace(env) == "":
		return cli.LogInfo, nil
	}
	level, err := log.ParseLevel(strings.TrimSpace(env))
	if err != nil {
		return cli.LogInfo, cerrors.New(cerrors.ErrCodeInvalidInput, "%s: unknown level %q", logLevelEnv, env)
	}
	return level, nil
}

// report prints err for the user. Interrupts are silent.
func report(w io.Writer, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(w, "cactus:", err)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeInvalidInput, cerrors.ErrCodeInvalidFormat, cerrors.ErrCodeInvalidStyle,
		cerrors.ErrCodeInvalidNode, cerrors.ErrCodeInvalidDimensions:
		return exitInvalid
	case cerrors.ErrCodeNotFound, cerrors.ErrCodeFileNotFound, cerrors.ErrCodeSessionNotFound:
		return exitNotFound
	case cerrors.ErrCodeNetwork, cerrors.ErrCodeTimeout:
		return exitUnavailable
	default:
		return exitFailure
	}
}
