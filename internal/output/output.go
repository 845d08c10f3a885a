// Package output renders command results as lipgloss tables, JSON, or
// compact one-liners.
package output

import "os"

// Format selects how command results are rendered.
type Format int

const (
	// FormatAuto falls back to the environment, then the table.
	FormatAuto Format = iota
	FormatJSON
	FormatTable
	FormatCompact
)

// Detect resolves the output format. Explicit flags win over the
// GANTRY_OUTPUT environment variable, and --json beats the other flags
// so scripted callers can always force machine output.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	return envFormat()
}

func envFormat() Format {
	switch os.Getenv("GANTRY_OUTPUT") {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	default:
		return FormatTable
	}
}
