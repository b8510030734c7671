package hcl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Settings *settingsBlock `hcl:"settings,block"`
	Filters  []*filterBlock `hcl:"filter,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

type settingsBlock struct {
	DefaultView   *string `hcl:"default_view,optional"`
	NodeText      *string `hcl:"node_text,optional"`
	NodeShortText *string `hcl:"node_short_text,optional"`
	NodeTinyText  *string `hcl:"node_tiny_text,optional"`
}

type filterBlock struct {
	Name  string       `hcl:"name,label"`
	Chain *string      `hcl:"chain,optional"`
	Rules []*ruleBlock `hcl:"rule,block"`
}

type ruleBlock struct {
	Property string         `hcl:"property"`
	Pattern  string         `hcl:"pattern"`
	Color    hcl.Expression `hcl:"color"`
}

// Load orchestrates the entire HCL configuration loading process. Paths that
// do not exist are skipped; directories are searched recursively for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.NewModel()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		reportLeftovers(logger, file, root.Remain)

		if root.Settings != nil {
			if err := l.translateSettings(root.Settings, &model.Settings); err != nil {
				return nil, fmt.Errorf("invalid settings in %s: %w", file, err)
			}
		}
		for _, fb := range root.Filters {
			def, err := l.translateFilter(evalCtx, fb)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q in %s: %w", fb.Name, file, err)
			}
			model.Filters = append(model.Filters, def)
		}
	}

	logger.Debug("HCL loading complete.", "default_view", model.Settings.DefaultView, "filters", len(model.Filters))
	return model, nil
}

// reportLeftovers warns about top-level attributes and blocks the loader does
// not understand, usually typos such as `setting { ... }`.
func reportLeftovers(logger *slog.Logger, file string, body hcl.Body) {
	if body == nil {
		return
	}
	attrs, diags := body.JustAttributes()
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		logger.Warn("Ignoring unknown top-level attribute.", "file", file, "name", name, "range", attrs[name].Range.String())
	}
	for _, d := range diags {
		if d.Subject == nil {
			continue
		}
		logger.Warn("Ignoring unknown top-level block.", "file", file, "detail", d.Summary, "range", d.Subject.String())
	}
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
