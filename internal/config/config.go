// Package config loads scoring thresholds from YAML and keeps a live engine in
// sync with the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"donorcrm/internal/scoring"
)

// Load reads the thresholds file at path. Fields absent from the file keep
// their scoring.DefaultThresholds value; a ladder given in the file replaces
// the default ladder as a whole. Unknown keys are rejected so a typo cannot
// silently fall back to a default.
func Load(path string) (scoring.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Thresholds{}, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes thresholds YAML over the defaults and validates the result.
func Parse(data []byte) (scoring.Thresholds, error) {
	cfg := scoring.DefaultThresholds()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return scoring.Thresholds{}, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return scoring.Thresholds{}, fmt.Errorf("config: %s", strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return cfg, nil
}

// LoadEngine builds an engine from path, or from the defaults when path is empty.
func LoadEngine(path string) (*scoring.Engine, error) {
	if strings.TrimSpace(path) == "" {
		return scoring.Default(), nil
	}
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(t)
}
