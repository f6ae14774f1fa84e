// Package config loads tsickle.toml, the optional project configuration.
//
// Назначение: найти tsickle.toml вверх по дереву и разобрать его.
// Не делает: разбор флагов CLI (флаги перекрывают значения файла в cmd).
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "tsickle.toml"

// Config mirrors tsickle.toml.
type Config struct {
	Annotate AnnotateConfig `toml:"annotate"`
	Module   ModuleConfig   `toml:"module"`
}

// AnnotateConfig holds the [annotate] section.
type AnnotateConfig struct {
	Untyped          bool     `toml:"untyped"`
	ExternsBlacklist []string `toml:"externs_blacklist"`
	ExternsFile      string   `toml:"externs_file"`
	OutDir           string   `toml:"out_dir"`
}

// ModuleConfig holds the [module] section.
type ModuleConfig struct {
	ES5             bool   `toml:"es5"`
	Prelude         string `toml:"prelude"`
	NamespacePrefix string `toml:"namespace_prefix"`
}

// Default is the configuration used when no file is found and the base
// that file values are decoded over.
func Default() Config {
	return Config{
		Annotate: AnnotateConfig{ExternsFile: "externs.js"},
		Module:   ModuleConfig{ES5: true, NamespacePrefix: "goog:"},
	}
}

// Find walks up from startDir to locate tsickle.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "failed to stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes tsickle.toml starting at dir. Without a file it
// returns Default and found == false.
func Load(dir string) (cfg Config, path string, found bool, err error) {
	path, found, err = Find(dir)
	if err != nil || !found {
		return Default(), path, found, err
	}
	cfg, err = LoadFile(path)
	return cfg, path, true, err
}

// LoadFile decodes one configuration file. Unknown keys are an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, errors.WithHint(
			errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", ")),
			"known sections are [annotate] and [module]")
	}
	if cfg.Module.NamespacePrefix == "" {
		return Config{}, errors.Newf("%s: [module].namespace_prefix must not be empty", path)
	}
	return cfg, nil
}
