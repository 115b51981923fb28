// Package config loads YAML configuration files. Values may reference
// environment variables with ${VAR} syntax; references are expanded
// before decoding.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types that check themselves
// after decoding.
type Validator interface {
	Validate() error
}

// ErrMissing reports that the named config file does not exist. Callers
// that treat a missing file as "use defaults" test for it with errors.Is.
var ErrMissing = errors.New("config file not found")

// Load decodes the YAML file at path into target. Unknown keys are
// rejected so typos surface at startup instead of silently defaulting.
// If target implements Validator, it is validated after decoding.
func Load[T any](path string, target *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
	}
	return nil
}
