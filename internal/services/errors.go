package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of the file(1) sniffer or exiftool.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks structural invariant violations that upstream
	// filtering should have prevented.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration or environment.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnknownFileType marks a type-sniffer description with no entry in
	// the extension table. The run aborts rather than copying a file under
	// a wrong extension; an unknown container format needs a human.
	ErrUnknownFileType = errors.New("unknown file type")
	// ErrTransient marks everything else.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message carrying stage context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
