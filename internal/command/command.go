package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bearbyt3z/bear-tunes/pkg/utils"
)

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the outcome of a finished command. Status is -1 when the
// process could not start or was terminated by a signal.
type Result struct {
	Status   int
	Signaled bool
	Stdout   string
	Stderr   string
}

// Runner executes external tools.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	// Pipe runs from and to concurrently with from's stdout connected to to's stdin.
	Pipe(ctx context.Context, from, to Command) (Result, error)
}

// ToolFailure reports a tool that exited unsuccessfully. Only the first line
// of its stderr is kept.
type ToolFailure struct {
	Tool     string
	Status   int
	Signaled bool
	Stderr   string
}

func (e *ToolFailure) Error() string {
	if e.Signaled {
		return fmt.Sprintf("%s was terminated by a signal", e.Tool)
	}
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.Status)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Start(); err != nil {
		return Result{Status: -1}, fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}
	return finish(cmd.Name, c.Wait(), &stdout, &stderr)
}

func (ExecRunner) Pipe(ctx context.Context, from, to Command) (Result, error) {
	var fromErr, stdout, stderr bytes.Buffer
	producer := exec.CommandContext(ctx, from.Name, from.Args...)
	consumer := exec.CommandContext(ctx, to.Name, to.Args...)

	pr, pw, err := os.Pipe()
	if err != nil {
		return Result{Status: -1}, fmt.Errorf("failed to create pipe: %w", err)
	}
	producer.Stdout = pw
	producer.Stderr = &fromErr
	consumer.Stdin = pr
	consumer.Stdout = &stdout
	consumer.Stderr = &stderr

	startErr := producer.Start()
	pw.Close()
	if startErr != nil {
		pr.Close()
		return Result{Status: -1}, fmt.Errorf("failed to start %s: %w", from.Name, startErr)
	}
	startErr = consumer.Start()
	pr.Close()
	if startErr != nil {
		producer.Wait()
		return Result{Status: -1}, fmt.Errorf("failed to start %s: %w", to.Name, startErr)
	}

	producerErr := producer.Wait()
	consumerErr := consumer.Wait()

	if producerErr != nil {
		return finish(from.Name, producerErr, &stdout, &fromErr)
	}
	return finish(to.Name, consumerErr, &stdout, &stderr)
}

func finish(tool string, err error, stdout, stderr *bytes.Buffer) (Result, error) {
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		res.Status = -1
		return res, fmt.Errorf("%s failed: %w", tool, err)
	}

	res.Status = exitErr.ExitCode()
	res.Signaled = res.Status == -1
	return res, &ToolFailure{
		Tool:     tool,
		Status:   res.Status,
		Signaled: res.Signaled,
		Stderr:   utils.FirstLine(res.Stderr),
	}
}
