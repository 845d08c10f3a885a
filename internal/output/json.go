package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON renders v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON error envelope commands emit in JSON mode.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes the error envelope. Encode failures are dropped:
// this runs on the way out of a failed command.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = JSON(w, ErrorResponse{Error: msg, Code: code, Details: details})
}
