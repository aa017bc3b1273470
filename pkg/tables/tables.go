// Package tables loads nickname and location alias extensions from a YAML file.
//
// The file has two optional top-level maps, each from a canonical name to its variants:
//
//	nicknames:
//	  katherine: [kate, kathy, katie]
//	locations:
//	  portland: [pdx, rose city]
//
// Entries extend the shipped tables; they never replace them.
package tables

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeGROOVE-dev/sociomatch/pkg/match"
	"gopkg.in/yaml.v3"
)

// Tables holds the extension entries read from a file.
type Tables struct {
	Nicknames map[string][]string `yaml:"nicknames"`
	Locations map[string][]string `yaml:"locations"`
}

// Load reads and validates a tables file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}
	return Parse(data)
}

// Parse decodes tables from YAML.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tables file: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	for section, m := range map[string]map[string][]string{"nicknames": t.Nicknames, "locations": t.Locations} {
		for key, variants := range m {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("%s: empty key", section)
			}
			for _, v := range variants {
				if strings.TrimSpace(v) == "" {
					return fmt.Errorf("%s.%s: empty variant", section, key)
				}
			}
		}
	}
	return nil
}

// Options returns scorer options that apply the extensions. A nil Tables yields none.
func (t *Tables) Options() []match.Option {
	if t == nil {
		return nil
	}
	var opts []match.Option
	if len(t.Nicknames) > 0 {
		opts = append(opts, match.WithNicknames(t.Nicknames))
	}
	if len(t.Locations) > 0 {
		opts = append(opts, match.WithLocationAliases(t.Locations))
	}
	return opts
}
