package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

const (
	maxStringLen = 50
	maxBytesLen  = 66
	maxJSONLen   = 100
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatValue renders a decoded argument value on one line. Values are the
// normalized forms produced by the decoder: strings for numbers, addresses and
// bytes, []any for lists and map[string]any for tuples.
func FormatValue(value any, valueType string) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		if valueType == "string" {
			if len(v) > maxStringLen {
				return fmt.Sprintf("%q...(%d chars)", v[:maxStringLen], len(v))
			}
			return fmt.Sprintf("%q", v)
		}
		if strings.HasPrefix(v, "0x") && len(v) > maxBytesLen {
			// Truncate long byte arrays
			return fmt.Sprintf("%s...(%d bytes)", v[:34], (len(v)-2)/2)
		}
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case []any:
		elem := valueType
		if i := strings.LastIndex(valueType, "["); i > 0 {
			elem = valueType[:i]
		}
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = FormatValue(item, elem)
		}
		return truncate("["+strings.Join(parts, ", ")+"]", maxJSONLen)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, FormatValue(v[k], ""))
		}
		return truncate("{"+strings.Join(parts, ", ")+"}", maxJSONLen)
	default:
		// Try JSON marshaling for anything else
		if jsonBytes, err := json.Marshal(v); err == nil {
			return truncate(string(jsonBytes), maxJSONLen)
		}
		return fmt.Sprintf("%v", v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%.*s...(%d chars)", n, s, len(s))
}
