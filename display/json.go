package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalJSON marshals JSON with pretty formatting for people and compact
// formatting when JAVABIND_OUTPUT=json-compact is set for scripts.
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv("JAVABIND_OUTPUT") == "json-compact" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON marshals v with MarshalJSON and writes it followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
