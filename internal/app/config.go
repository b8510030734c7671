package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/graphview/internal/nodeid"
)

// NoDiff disables the comparison window.
const NoDiff = -1

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // optional settings file or directory (hcl)

	Phases        int
	NodeCount     int
	Seed          int64
	DuplicateRate float64

	HideDuplicates bool
	Select         int // snapshot index within the group
	Diff           int // snapshot index to compare with, or NoDiff
	Selection      nodeid.Set

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Phases < 1 {
		return nil, errors.New("phases must be at least 1")
	}
	if cfg.NodeCount < 1 {
		return nil, errors.New("nodes must be at least 1")
	}
	if cfg.DuplicateRate < 0 || cfg.DuplicateRate > 1 {
		return nil, fmt.Errorf("duplicate-rate %v must be within [0, 1]", cfg.DuplicateRate)
	}
	if cfg.Select < 0 || cfg.Select >= cfg.Phases {
		return nil, fmt.Errorf("select %d is out of range [0, %d)", cfg.Select, cfg.Phases)
	}
	if cfg.Diff != NoDiff && (cfg.Diff < 0 || cfg.Diff >= cfg.Phases) {
		return nil, fmt.Errorf("diff %d is out of range [0, %d)", cfg.Diff, cfg.Phases)
	}
	if cfg.Selection == nil {
		cfg.Selection = nodeid.NewSet()
	}
	return &cfg, nil
}
