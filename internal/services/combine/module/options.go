package module

import (
	"qabundle/internal/platform/config"
)

// Options holds combine settings
type Options struct {
	InputDir string
	Pattern  string
	Output   string
}

// FromConfig reads COMBINE_* with the historical defaults
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("COMBINE_")
	return Options{
		InputDir: c.MayString("INPUT_DIR", "qa_data"),
		Pattern:  c.MayString("PATTERN", "*.json"),
		Output:   c.MayString("OUTPUT", "combined_qa_dataset.json"),
	}
}
