package embed

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type epochField struct {
	Timestamp string `json:"timestamp"`
}

type sidecarTimes struct {
	CreationTime          epochField `json:"creationTime"`
	PhotoLastModifiedTime epochField `json:"photoLastModifiedTime"`
}

// SidecarTime parses the sidecar's creationTime.timestamp and
// photoLastModifiedTime.timestamp epoch-second fields and returns the
// earlier of the two.
func SidecarTime(path string) (time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("read sidecar: %w", err)
	}
	var times sidecarTimes
	if err := json.Unmarshal(data, &times); err != nil {
		return time.Time{}, fmt.Errorf("parse sidecar: %w", err)
	}

	creation, err := parseEpoch(times.CreationTime.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("creationTime: %w", err)
	}
	modified, err := parseEpoch(times.PhotoLastModifiedTime.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("photoLastModifiedTime: %w", err)
	}
	if creation.Before(modified) {
		return creation, nil
	}
	return modified, nil
}

// ApplySidecarTimes stamps destination's modification and access times from
// the sidecar.
func ApplySidecarTimes(sidecarPath, destination string) error {
	when, err := SidecarTime(sidecarPath)
	if err != nil {
		return err
	}
	return os.Chtimes(destination, when, when)
}

func parseEpoch(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return time.Unix(seconds, 0), nil
}
