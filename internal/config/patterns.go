package config

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// PatternFile is the TOML layout of a patterns file:
//
//	replace_defaults = false
//
//	[[pattern]]
//	family = "Safe"
//	name = "execTransaction"
//	shape = '^execTransaction\(.*\)$'
//	bonus = 9
type PatternFile struct {
	ReplaceDefaults bool           `toml:"replace_defaults"`
	Patterns        []PatternEntry `toml:"pattern" validate:"dive"`
}

// PatternEntry is one [[pattern]] table.
type PatternEntry struct {
	Family string  `toml:"family" validate:"required"`
	Name   string  `toml:"name" validate:"required"`
	Shape  string  `toml:"shape" validate:"required"`
	Bonus  float64 `toml:"bonus" validate:"gte=0"`
}

// LoadPatterns reads a patterns file and returns the full ordered pattern
// list: file patterns first, then the defaults unless replace_defaults is set.
func LoadPatterns(path string) ([]signature.Pattern, error) {
	var file PatternFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid pattern in %s: %w", path, err)
	}

	patterns := make([]signature.Pattern, 0, len(file.Patterns)+len(signature.DefaultPatterns()))
	for i, entry := range file.Patterns {
		shape, err := regexp.Compile(entry.Shape)
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%s) in %s: %w", i, entry.Name, path, err)
		}
		patterns = append(patterns, signature.Pattern{
			Family: entry.Family,
			Name:   entry.Name,
			Shape:  shape,
			Bonus:  entry.Bonus,
		})
	}

	if !file.ReplaceDefaults {
		patterns = append(patterns, signature.DefaultPatterns()...)
	}
	return patterns, nil
}
