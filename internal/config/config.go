// YAML scenario loader with CUE schema validation
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	yamlv3 "gopkg.in/yaml.v3"
)

// Scenario describes the synthetic training run the simulator writes
// status for.
type Scenario struct {
	TotalIterations     int64   `yaml:"total_iterations"`
	IterationsPerTick   int64   `yaml:"iterations_per_tick"`
	FailAtIteration     int64   `yaml:"fail_at_iteration"`
	InitialSplats       int64   `yaml:"initial_splats"`
	SplatGrowthPerIter  float64 `yaml:"splat_growth_per_iteration"`
	EvalEveryIterations int64   `yaml:"eval_every_iterations"`
	ExportEvery         int64   `yaml:"export_every_iterations"`
	ExportPath          string  `yaml:"export_path"`
	ExportPrefix        string  `yaml:"export_prefix"`
}

// Load validates the YAML scenario against a CUE schema, then
// unmarshals it and fills defaults for omitted fields.
func Load(configPath, cueSchemaPath string) (*Scenario, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yamlv3.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	applyDefaults(&sc)

	if sc.TotalIterations <= 0 {
		return nil, fmt.Errorf("total_iterations must be positive, got %d", sc.TotalIterations)
	}
	return &sc, nil
}

func applyDefaults(sc *Scenario) {
	if sc.IterationsPerTick <= 0 {
		sc.IterationsPerTick = 25
	}
	if sc.InitialSplats <= 0 {
		sc.InitialSplats = 5000
	}
	if sc.SplatGrowthPerIter < 0 {
		sc.SplatGrowthPerIter = 0
	}
	if sc.ExportPath == "" {
		sc.ExportPath = "./out"
	}
	if sc.ExportPrefix == "" {
		sc.ExportPrefix = "splats"
	}
}

// ValidateWithCue validates a YAML scenario file using a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML scenario: %w", err)
	}
	configFileAST, err := yaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML scenario: %w", err)
	}
	configVal := ctx.BuildFile(configFileAST)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
