package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/netauto/iosxecfg/internal/config"
)

// writeOutput prints v as JSON or YAML, or prints detailed for the
// detailed format.
func writeOutput(w io.Writer, format string, v any, detailed string) error {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()

	default:
		_, err := fmt.Fprint(w, detailed)
		return err
	}
}

// writeRaw prints a raw RESTCONF document. YAML output re-encodes it;
// the other formats print it indented.
func writeRaw(w io.Writer, format string, raw json.RawMessage) error {
	if format == config.FormatYAML {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
		return writeOutput(w, format, doc, "")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent document: %w", err)
	}
	_, err := fmt.Fprintln(w, pretty.String())
	return err
}
