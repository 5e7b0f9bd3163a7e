// Package Config loads the optional run configuration file. The format follows the
// file extension: .toml, .yaml/.yml or .json.
package Config

import (
	"VeraoNet/Consensus"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Generator values are pointers so a file can leave any of them unset
type Generator struct {
	Users *int    `json:"users" toml:"users" yaml:"users"`
	Steps *int    `json:"steps" toml:"steps" yaml:"steps"`
	Out   *string `json:"out" toml:"out" yaml:"out"`
	Seed  *int64  `json:"seed" toml:"seed" yaml:"seed"`
}

// thresholdsSection mirrors Consensus.Thresholds with optional fields
type thresholdsSection struct {
	LowLoad          *int     `json:"low_load" toml:"low_load" yaml:"low_load"`
	MediumLoad       *int     `json:"medium_load" toml:"medium_load" yaml:"medium_load"`
	HighLoad         *int     `json:"high_load" toml:"high_load" yaml:"high_load"`
	LatencyThreshold *int     `json:"latency_threshold" toml:"latency_threshold" yaml:"latency_threshold"`
	EnergyThreshold  *float64 `json:"energy_threshold" toml:"energy_threshold" yaml:"energy_threshold"`
}

// resolve fills the fields the file set on top of Consensus.DefaultThresholds
func (ts *thresholdsSection) resolve() Consensus.Thresholds {

	t := Consensus.DefaultThresholds()
	if ts.LowLoad != nil {
		t.LowLoad = *ts.LowLoad
	}
	if ts.MediumLoad != nil {
		t.MediumLoad = *ts.MediumLoad
	}
	if ts.HighLoad != nil {
		t.HighLoad = *ts.HighLoad
	}
	if ts.LatencyThreshold != nil {
		t.LatencyThreshold = *ts.LatencyThreshold
	}
	if ts.EnergyThreshold != nil {
		t.EnergyThreshold = *ts.EnergyThreshold
	}
	return t

}

type rawFile struct {
	Generator  Generator          `json:"generator" toml:"generator" yaml:"generator"`
	Thresholds *thresholdsSection `json:"thresholds" toml:"thresholds" yaml:"thresholds"`
}

// File is a loaded configuration. Thresholds is nil when the file has no thresholds
// section; otherwise fields the section omits hold their defaults.
type File struct {
	Generator  Generator
	Thresholds *Consensus.Thresholds
}

// Load reads a full configuration file
func Load(path string) (*File, error) {

	raw := new(rawFile)
	if err := decode(path, raw); err != nil {
		return nil, err
	}

	f := &File{Generator: raw.Generator}
	if raw.Thresholds != nil {
		t := raw.Thresholds.resolve()
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.Thresholds = &t
	}
	return f, nil
}

// LoadThresholds reads a file holding only switcher thresholds. Fields the file omits
// keep their defaults.
func LoadThresholds(path string) (Consensus.Thresholds, error) {

	section := new(thresholdsSection)
	if err := decode(path, section); err != nil {
		return Consensus.Thresholds{}, err
	}
	t := section.resolve()
	if err := t.Validate(); err != nil {
		return Consensus.Thresholds{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func decode(path string, v interface{}) error {

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, v)
	case ".json":
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil

}
