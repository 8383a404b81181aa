// Command hamlparser parses Haml templates and prints their syntax trees.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dpotapov/hamlparser"
	"github.com/spf13/cobra"
)

const (
	exitSuccess          = 0
	exitInvalidArguments = 1
	exitIOError          = 2
	exitParseError       = 3
)

var version = "dev"

// exitError carries the process exit code for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type options struct {
	format     string
	scriptLang string
	verbose    bool
	context    int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitInvalidArguments
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "hamlparser [flags] FILE...",
		Short:         "Parse Haml templates and print their syntax trees",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return parseFiles(&opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "pretty",
		"output format: "+strings.Join(hamlparser.Formats(), ", "))
	flags.StringVar(&opts.scriptLang, "script-lang", "ruby", "script language used to continue lines: ruby, expr")
	flags.IntVar(&opts.context, "context", 2, "source lines shown around a parse error")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log parser debug output to stderr")

	return cmd
}

func parseFiles(opts *options, files []string, stdout, stderr io.Writer) error {
	if !slices.Contains(hamlparser.Formats(), opts.format) {
		return fmt.Errorf("unknown format %q, expected one of %v", opts.format, hamlparser.Formats())
	}
	if opts.context < 0 {
		return fmt.Errorf("invalid --context %d, expected a value >= 0", opts.context)
	}
	cont, err := hamlparser.ContinuationFor(opts.scriptLang)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var errs []error
	code := exitSuccess
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			logger.Error("read failed", "filename", name, "error", err)
			errs = append(errs, fmt.Errorf("read template: %w", err))
			code = max(code, exitIOError)
			continue
		}

		root, err := hamlparser.Parse(src, name,
			hamlparser.WithContinuation(cont), hamlparser.WithLogger(logger))
		if err != nil {
			logger.Error("parse failed", "filename", name, "error", err)
			if ctx := hamlparser.ErrorContext(err, string(src), name, opts.context); ctx != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				_, _ = ctx.WriteTo(stderr)
			}
			errs = append(errs, err)
			code = max(code, exitParseError)
			continue
		}

		if len(files) > 1 && opts.format == "pretty" {
			fmt.Fprintf(stdout, "# %s\n", name)
		}
		if err := hamlparser.Format(stdout, root, opts.format); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", name, err))
			code = max(code, exitIOError)
		}
	}

	if len(errs) > 0 {
		return &exitError{code: code, err: errors.Join(errs...)}
	}
	return nil
}

