package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultExtensions are the file extensions formatted when a directory is walked.
var DefaultExtensions = []string{".mmd", ".mermaid"}

// Manifest is a loaded configuration together with where it came from.
// Path and Root are empty for the built-in defaults.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Format FormatConfig `toml:"format"`
	Files  FilesConfig  `toml:"files"`
}

type FormatConfig struct {
	// Indent is the number of spaces per level; nil keeps the formatter default.
	Indent *int  `toml:"indent"`
	Tabs   *bool `toml:"tabs"`
}

type FilesConfig struct {
	Extensions []string `toml:"extensions"`
	// Exclude holds glob patterns matched against slash-separated paths
	// relative to the project root and against base names.
	Exclude []string `toml:"exclude"`
}

// Defaults returns the configuration used without a project file.
func Defaults() Manifest {
	return Manifest{Config: Config{Files: FilesConfig{Extensions: slices.Clone(DefaultExtensions)}}}
}

// LoadManifest finds and loads the project configuration above startDir.
// Without a configuration file the defaults are returned with ok=false.
func LoadManifest(startDir string) (m Manifest, ok bool, err error) {
	cfgPath, ok, err := FindConfig(startDir)
	if err != nil {
		return Manifest{}, false, err
	}
	if !ok {
		return Defaults(), false, nil
	}
	m, err = LoadFile(cfgPath)
	return m, true, err
}

// LoadFile decodes and validates a configuration file.
func LoadFile(path string) (Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Manifest{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("format", "indent") && *cfg.Format.Indent <= 0 {
		return Manifest{}, fmt.Errorf("%s: [format].indent must be positive, got %d", path, *cfg.Format.Indent)
	}
	if !meta.IsDefined("files", "extensions") {
		cfg.Files.Extensions = slices.Clone(DefaultExtensions)
	}
	for i, ext := range cfg.Files.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return Manifest{}, fmt.Errorf("%s: [files].extensions contains an empty entry", path)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Files.Extensions[i] = ext
	}
	for _, pat := range cfg.Files.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return Manifest{}, fmt.Errorf("%s: [files].exclude pattern %q: %w", path, pat, err)
		}
	}
	return Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// HasExtension reports whether path has one of the configured extensions.
func (m Manifest) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	exts := m.Config.Files.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return slices.Contains(exts, ext)
}

// Excluded reports whether path matches an exclude pattern.
func (m Manifest) Excluded(path string) bool {
	if len(m.Config.Files.Exclude) == 0 {
		return false
	}
	rel := path
	if m.Root != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if r, err := filepath.Rel(m.Root, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pat := range m.Config.Files.Exclude {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		// "dir/" or "dir/**" style prefixes exclude whole trees
		prefix := strings.TrimSuffix(strings.TrimSuffix(pat, "**"), "/")
		if prefix != "" && prefix != pat && (rel == prefix || strings.HasPrefix(rel, prefix+"/")) {
			return true
		}
	}
	return false
}
