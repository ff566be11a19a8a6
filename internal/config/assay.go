package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/viability.report/internal/assay"
)

// DefaultConfigPath is the path to the canonical assay defaults file.
// This is the single source of truth for all default column selections and
// concentration series.
const DefaultConfigPath = "config/assay.defaults.json"

// AssayConfig represents configuration for the IC50 tools. The schema
// matches the /api/ic50 request fields so the same JSON can seed both the
// CLI defaults and the server's example parameters. All fields are optional;
// the Get* methods provide fallback defaults for anything not specified.
type AssayConfig struct {
	NegativeControl    *int       `json:"negative_control,omitempty"`
	UntreatedReference *int       `json:"untreated_reference,omitempty"`
	TreatmentColumns   *[]int     `json:"treatment_columns,omitempty"`
	Concentrations     *[]float64 `json:"concentrations,omitempty"`
	DrugName           *string    `json:"drug_name,omitempty"`
	Unit               *string    `json:"unit,omitempty"`
	Listen             *string    `json:"listen,omitempty"`
}

// EmptyAssayConfig returns an AssayConfig with all fields set to nil.
// Use LoadAssayConfig to load actual values from a defaults file.
func EmptyAssayConfig() *AssayConfig {
	return &AssayConfig{}
}

// LoadAssayConfig loads an AssayConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON retain their defaults, so partial configs are safe.
func LoadAssayConfig(path string) (*AssayConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAssayConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that configured values are internally plausible. Grid
// bounds cannot be checked here; that happens against a concrete grid at
// compute time.
func (c *AssayConfig) Validate() error {
	if c.NegativeControl != nil && *c.NegativeControl < 0 {
		return fmt.Errorf("negative_control must be non-negative, got %d", *c.NegativeControl)
	}
	if c.UntreatedReference != nil && *c.UntreatedReference < 0 {
		return fmt.Errorf("untreated_reference must be non-negative, got %d", *c.UntreatedReference)
	}
	if c.TreatmentColumns != nil {
		for _, t := range *c.TreatmentColumns {
			if t < 0 {
				return fmt.Errorf("treatment_columns must be non-negative, got %d", t)
			}
		}
	}
	if c.Concentrations != nil {
		for _, v := range *c.Concentrations {
			if v <= 0 {
				return fmt.Errorf("concentrations must be positive, got %g", v)
			}
		}
	}
	return nil
}

// Merge overlays non-nil fields from other onto c.
func (c *AssayConfig) Merge(other *AssayConfig) {
	if other == nil {
		return
	}
	if other.NegativeControl != nil {
		c.NegativeControl = other.NegativeControl
	}
	if other.UntreatedReference != nil {
		c.UntreatedReference = other.UntreatedReference
	}
	if other.TreatmentColumns != nil {
		c.TreatmentColumns = other.TreatmentColumns
	}
	if other.Concentrations != nil {
		c.Concentrations = other.Concentrations
	}
	if other.DrugName != nil {
		c.DrugName = other.DrugName
	}
	if other.Unit != nil {
		c.Unit = other.Unit
	}
	if other.Listen != nil {
		c.Listen = other.Listen
	}
}

// GetListen returns the listen address or the default.
func (c *AssayConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080" // default
	}
	return *c.Listen
}

// Params materializes the configured defaults as pipeline parameters,
// falling back to the embedded example layout for anything unset.
func (c *AssayConfig) Params() assay.Params {
	p := assay.DefaultParams()
	if c.NegativeControl != nil {
		p.NegativeControl = *c.NegativeControl
	}
	if c.UntreatedReference != nil {
		p.UntreatedReference = *c.UntreatedReference
	}
	if c.TreatmentColumns != nil {
		p.TreatmentColumns = append([]int(nil), (*c.TreatmentColumns)...)
	}
	if c.Concentrations != nil {
		p.Concentrations = append([]float64(nil), (*c.Concentrations)...)
	}
	if c.DrugName != nil {
		p.DrugName = *c.DrugName
	}
	if c.Unit != nil {
		p.Unit = *c.Unit
	}
	return p
}
