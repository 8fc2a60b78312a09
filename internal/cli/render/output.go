package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// WriteStructured writes v as indented JSON or YAML.
func WriteStructured(out io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// IsStructured reports whether format is machine readable.
func IsStructured(format config.OutputFormat) bool {
	return format == config.FormatJSON || format == config.FormatYAML
}
