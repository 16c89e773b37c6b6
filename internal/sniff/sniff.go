package sniff

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"takesort/internal/services"
)

// Runner abstracts command execution for testability.
type Runner interface {
	Output(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type commandRunner struct{}

func (commandRunner) Output(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output()
}

// Option configures the sniffer.
type Option func(*Sniffer)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(s *Sniffer) {
		if r != nil {
			s.run = r
		}
	}
}

// Sniffer shells out to file(1) per path. Calls are serial and blocking.
type Sniffer struct {
	binary string
	run    Runner
}

// New constructs a sniffer around the given binary name.
func New(binary string, opts ...Option) (*Sniffer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("file command required")
	}
	s := &Sniffer{binary: binary, run: commandRunner{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Describe returns the free-text type description for path: everything
// after the first colon of file(1)'s "<path>: <description>" output.
func (s *Sniffer) Describe(ctx context.Context, path string) (string, error) {
	out, err := s.run.Output(ctx, s.binary, path)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "classify", "sniff type", "file command failed for "+path, err)
	}
	text := string(out)
	idx := strings.Index(text, ":")
	if idx < 0 {
		return "", services.Wrap(services.ErrExternalTool, "classify", "sniff type", "unparseable file output: "+strings.TrimSpace(text), nil)
	}
	return text[idx+1:], nil
}
