package styles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads a style file. Files ending in .json are decoded as JSON,
// everything else as TOML.
func Load(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("read style %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseTOML(data)
}

// ParseTOML decodes a TOML style document.
func ParseTOML(data []byte) (Style, error) {
	var s Style
	if err := toml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("decode style: %w", err)
	}
	return s, nil
}

// ParseJSON decodes a JSON style document.
func ParseJSON(data []byte) (Style, error) {
	var s Style
	if err := json.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("decode style: %w", err)
	}
	return s, nil
}
