package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyCache   = "cache"
	keyAPI     = "api"
	keyHistory = "history"
	keyLogging = "logging"
	keyOutput  = "output"
	keyDataDir = "data_dir"
)

// MergeYAML loads a YAML file and merges it onto target section by section.
// Fields a section sets replace the target's; fields it omits keep their
// current value. Unknown keys are ignored.
func MergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}
	return nil
}

// unmarshalSection decodes node over a copy of the current section. Sections
// hold no maps, so decoding over the copy cannot leak stale keys.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyCache:
		v := target.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyAPI:
		v := target.API
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.API = v
	case keyHistory:
		v := target.History
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.History = v
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyOutput:
		v := target.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyDataDir:
		v := target.DataDir
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.DataDir = v
	}
	return nil
}
