package capability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command is a program the frontend may run by name.
type Command struct {
	Program string
	Args    []string
}

type ExecResult struct {
	Code   int    `json:"code"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Shell runs preconfigured commands only; the frontend can append arguments
// but never choose the program.
type Shell struct {
	commands map[string]Command
	timeout  time.Duration
}

func NewShell(commands map[string]Command, timeout time.Duration) *Shell {
	return &Shell{commands: commands, timeout: timeout}
}

func (s *Shell) Name() string { return "shell" }

func (s *Shell) setup() error {
	for name, c := range s.commands {
		if strings.TrimSpace(c.Program) == "" {
			return fmt.Errorf("command %q has no program", name)
		}
	}
	if s.timeout <= 0 {
		return errors.New("shell timeout must be positive")
	}
	return nil
}

func (s *Shell) Commands() []string {
	out := make([]string, 0, len(s.commands))
	for name := range s.commands {
		out = append(out, name)
	}
	return out
}

func (s *Shell) Execute(name string, args []string) (ExecResult, error) {
	return s.ExecuteContext(context.Background(), name, args)
}

func (s *Shell) ExecuteContext(ctx context.Context, name string, args []string) (ExecResult, error) {
	c, ok := s.commands[name]
	if !ok {
		return ExecResult{}, fmt.Errorf("command %q: %w", name, ErrNotAllowed)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	argv := append(append([]string{}, c.Args...), args...)
	cmd := exec.CommandContext(ctx, c.Program, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.Code = exitErr.ExitCode()
		if ctx.Err() != nil {
			return res, fmt.Errorf("command %q: %w", name, ctx.Err())
		}
	default:
		return res, fmt.Errorf("command %q: %w", name, err)
	}
	return res, nil
}
