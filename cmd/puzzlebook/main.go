// Package main provides the puzzlebook CLI: an interactive browser and a set
// of scriptable commands over a puzzle catalog feed and the local store of
// solved marks, ink and preferences.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "puzzlebook:", err)
		os.Exit(exitCode(err))
	}
}

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input.
func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// sysError marks err as an environment or I/O failure.
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode maps a command error to the process exit code. Unmarked errors
// (cobra argument and flag errors) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
