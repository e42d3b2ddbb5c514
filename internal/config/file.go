package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Decode parses TOML settings on top of the defaults. Unknown keys are rejected.
func Decode(data []byte) (Settings, error) {
	s := Defaults()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("could not decode config: %w", err)
	}
	clamp(&s)
	return s, nil
}

// Load reads a TOML file and makes it the current configuration
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("could not read config file: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	Set(s)
	return s, nil
}
