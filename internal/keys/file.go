package keys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
)

// overridesFile is the TOML layout of a keymap file:
//
//	[[keybinding]]
//	scope = "table"
//	action = "mark_range"
//	keys = ["shift+space", "v"]
type overridesFile struct {
	Keybinding []Override `toml:"keybinding"`
}

// LoadOverrides reads a keymap file. A missing file yields no overrides.
func LoadOverrides(path string) ([]Override, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	var f overridesFile
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse keymap %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse keymap %s: unknown key %q", path, undecoded[0].String())
	}
	return f.Keybinding, nil
}

// ApplyFile loads path and applies its overrides.
func (r *Registry) ApplyFile(path string) error {
	items, err := LoadOverrides(path)
	if err != nil {
		return err
	}
	return r.ApplyOverrides(items)
}

// WriteFile saves the registry's current bindings in keymap file format.
func (r *Registry) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create keymap: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(overridesFile{Keybinding: r.Export()}); err != nil {
		return fmt.Errorf("encode keymap: %w", err)
	}
	return nil
}

// suggest returns a "did you mean" hint for the closest candidate, or an
// empty string when nothing is close.
func suggest(got string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(got), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" || bestDist > max(2, len(got)/3) {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
