// Package patchtool delegates unified diffs to an external patch program.
package patchtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Command is one invocation of an external program.
type Command struct {
	Dir  string
	Name string
	Args []string
}

func (c Command) String() string {
	return fmt.Sprintf("%s %v (in %s)", c.Name, c.Args, c.Dir)
}

// Result carries what the program printed and how it exited.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs a command to completion. A non-zero exit is reported in Result,
// not as an error; errors mean the program could not be run at all.
//
//go:generate mockgen -destination=../../mocks/mock_executor.go -package=mocks . Executor
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecExecutor runs commands with os/exec.
type ExecExecutor struct{}

// NewExecExecutor returns an Executor backed by os/exec.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

func (ExecExecutor) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("failed to run %s: %w", c.Name, err)
}
