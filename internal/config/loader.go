package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownScenario is returned when no file or built-in default exists
// for a scenario ID.
var ErrUnknownScenario = errors.New("config: unknown scenario")

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("scenario.schema.json", scenarioSchema)
	})
	return compiledSchema, schemaErr
}

// LoadScenario loads a scenario configuration.
// Search order: customPath -> ~/.idle/scenarios/<id>.yaml -> ./scenarios/<id>.yaml -> embedded default
func LoadScenario(id, customPath string) (ScenarioConfig, error) {
	// An explicit path must load or fail loudly.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ScenarioConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return ScenarioConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// User and local overrides are skipped when broken.
	for _, p := range []string{userConfigPath(id + ".yaml"), filepath.Join("scenarios", id+".yaml")} {
		if p == "" {
			continue
		}
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	data, err := embeddedScenario(id)
	if err != nil {
		return ScenarioConfig{}, fmt.Errorf("%w %q", ErrUnknownScenario, id)
	}
	return Parse(data)
}

// Parse validates a YAML document against the scenario schema and decodes
// it. Balance and tier keys the document omits keep their defaults.
func Parse(data []byte) (ScenarioConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ScenarioConfig{}, err
	}
	if err := validate(doc); err != nil {
		return ScenarioConfig{}, err
	}

	cfg := ScenarioConfig{
		Balance: DefaultBalanceConfig(),
		Tiers:   DefaultTiersConfig(),
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ScenarioConfig{}, err
	}
	return cfg, nil
}

// validate runs the schema over doc after a JSON round trip, which turns
// YAML's native ints and maps into the types the validator expects.
func validate(doc any) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: scenario is not JSON-compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".idle", "scenarios", filename)
}
