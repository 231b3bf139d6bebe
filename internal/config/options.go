package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options tunes the default-elimination pass. All fields are optional in
// the YAML file; missing ones keep their DefaultOptions value.
type Options struct {
	// Parallel translates independent top-level declarations concurrently.
	Parallel bool `yaml:"parallel"`
	// MaxWorkers bounds concurrent declaration translations.
	MaxWorkers int `yaml:"max_workers"`
	// VerifyOutput re-walks the output and aborts if a default construct survived.
	VerifyOutput bool `yaml:"verify_output"`
	// Trace logs one line per translated declaration.
	Trace bool `yaml:"trace"`
	// LineWidth is used by the pretty printer.
	LineWidth int `yaml:"line_width"`
}

func DefaultOptions() *Options {
	return &Options{
		Parallel:     false,
		MaxWorkers:   DefaultMaxWorkers,
		VerifyOutput: true,
		Trace:        false,
		LineWidth:    DefaultLineWidth,
	}
}

// ParseOptions decodes YAML options on top of the defaults.
func ParseOptions(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	return ParseOptions(data)
}

func (o *Options) Validate() error {
	if o.MaxWorkers < 1 {
		return fmt.Errorf("options: max_workers must be positive, got %d", o.MaxWorkers)
	}
	if o.LineWidth < 0 {
		return fmt.Errorf("options: line_width must not be negative, got %d", o.LineWidth)
	}
	return nil
}
