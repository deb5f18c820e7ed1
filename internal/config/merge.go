package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names.
const (
	keyOutput   = "output"
	keyLogging  = "logging"
	keyDefaults = "defaults"
	keyServer   = "server"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config sections.
// Keys not in this list are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:   true,
	keyLogging:  true,
	keyDefaults: true,
	keyServer:   true,
}

// MergeYAMLFile reads a YAML file and merges it onto target with MergeYAML.
func MergeYAMLFile(target *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = MergeYAML(target, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// MergeYAML decodes data onto target section by section. Fields present in
// a section replace the target's values; absent fields and absent sections
// are left unchanged. A section that fails to decode leaves target untouched.
func MergeYAML(target *Config, data []byte) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	merged := *target
	for key, node := range overlay {
		if !knownTopLevelKeys[key] || node.Tag == "!!null" {
			continue
		}
		if err := decodeSection(&merged, key, &node); err != nil {
			return fmt.Errorf("applying section %q: %w", key, err)
		}
	}
	*target = merged
	return nil
}

// decodeSection decodes node onto the matching field of target. yaml.v3
// keeps struct fields the node does not mention.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		return node.Decode(&target.Output)
	case keyLogging:
		return node.Decode(&target.Logging)
	case keyDefaults:
		return node.Decode(&target.Defaults)
	case keyServer:
		return node.Decode(&target.Server)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
