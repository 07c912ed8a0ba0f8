package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths holds all resolved filesystem paths of the workspace.
type Paths struct {
	Root      string
	Config    string
	Documents string
	Messages  string
	Log       string
}

// NewPaths resolves the configured locations relative to root.
func NewPaths(root string, cfg *Config) *Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	p := &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}
	if cfg != nil {
		p.Documents = abs(cfg.Workspace.Documents)
		p.Log = abs(cfg.Log.File)
		if cfg.Messages.Sink == "file" {
			p.Messages = abs(cfg.Messages.Path)
		}
	}
	return p
}

// EnsureDirectories creates the document store and the parent directories of
// the log and message files if they do not already exist.
func EnsureDirectories(p *Paths) error {
	dirs := []string{p.Documents}
	for _, f := range []string{p.Log, p.Messages} {
		if f != "" {
			dirs = append(dirs, filepath.Dir(f))
		}
	}

	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return nil
}

// Save writes cfg as config.yaml into dir and makes it the cached config.
func Save(dir string, cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("writing config.yaml: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("renaming config.yaml: %w", err)
	}

	mu.Lock()
	globalCfg = cfg
	globalRoot = dir
	mu.Unlock()

	return path, nil
}
