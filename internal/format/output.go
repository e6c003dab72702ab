// Package format renders CLI results as JSON or EDN.
package format

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Write writes v in the requested format: json (default) or edn.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes one JSON document followed by a newline. Output stays
// strict JSON; hints for the caller go in a `_hints` field.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
