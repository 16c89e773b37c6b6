package embed

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"takesort/internal/logging"
	"takesort/internal/media"
	"takesort/internal/services"
)

// exiftool only writes date tags when the target file lacks them; the -if
// guard makes a second run over the same tree a no-op.
const writeGuard = `($Filetype eq "MP4" and not $quicktime:TrackCreateDate) or ` +
	`($Filetype eq "MP4" and $quicktime:TrackCreateDate eq "0000:00:00 00:00:00") or ` +
	`($Filetype eq "JPEG" and not $exif:DateTimeOriginal) or ` +
	`($Filetype eq "PNG" and not $PNG:CreationTime)`

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) error
}

type commandRunner struct{}

func (commandRunner) Run(ctx context.Context, binary string, args ...string) error {
	out, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
	if err != nil {
		return errors.New(strings.TrimSpace(strings.ReplaceAll(string(out), "\n", "  ")))
	}
	return nil
}

// Option configures the embedder.
type Option func(*Embedder)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(e *Embedder) {
		if r != nil {
			e.run = r
		}
	}
}

// Embedder applies sidecar timestamps to copied media.
type Embedder struct {
	binary string
	run    Runner
	logger *slog.Logger
}

// New constructs an embedder around the given exiftool binary.
func New(binary string, logger *slog.Logger, opts ...Option) (*Embedder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool command required")
	}
	e := &Embedder{
		binary: binary,
		run:    commandRunner{},
		logger: logging.NewComponentLogger(logger, "embed"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Apply embeds date tags from the file's sidecar into its destination copy,
// then sets the destination's modification and access times to the earlier
// of the sidecar's creation and photo-last-modified timestamps. The
// filesystem times are applied regardless of the exiftool outcome. Files
// without a sidecar are skipped.
func (e *Embedder) Apply(ctx context.Context, f *media.File) error {
	if f.SidecarPath == "" {
		e.logger.Debug("no sidecar to embed", logging.String(logging.FieldMedia, f.SourcePath))
		return nil
	}

	args := []string{
		"-if", writeGuard,
		"-tagsfromfile", f.SidecarPath,
		"-AllDates<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,1)}",
		"-XMP-Exif:DateTimeOriginal<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,1)}",
		"-PNG:CreationTime<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,1)}",
		"-QuickTime:TrackCreateDate<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,0)}",
		"-QuickTime:TrackModifyDate<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,0)}",
		"-QuickTime:MediaCreateDate<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,0)}",
		"-QuickTime:MediaModifyDate<${PhotoTakenTimeTimestamp;$_=ConvertUnixTime($_,0)}",
		"-overwrite_original",
		f.Destination,
	}
	if err := e.run.Run(ctx, e.binary, args...); err != nil {
		// Exit status 2 also lands here when the -if guard skips the file.
		e.logger.Warn("exiftool did not update tags",
			logging.String("destination", f.Destination),
			logging.Error(err),
		)
	} else {
		e.logger.Debug("tags embedded", logging.String("destination", f.Destination))
	}

	if err := ApplySidecarTimes(f.SidecarPath, f.Destination); err != nil {
		return services.Wrap(services.ErrTransient, "embed", "apply file times", f.Destination, err)
	}
	return nil
}
