package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML writes data as a YAML document with two-space indentation.
func PrintYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
