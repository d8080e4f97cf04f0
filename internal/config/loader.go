package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where a value came from: a position in a config file, or the
// built-in defaults.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// LoadResult is an effective config plus the file position of every key the
// files set, keyed by dotted path (sequence items by index).
type LoadResult struct {
	Config  *Config
	Sources map[string]Source
	Files   []string // in merge order, includes before their includer
}

// EnvConfigPath overrides the default config location when set.
const EnvConfigPath = "WINDOWKIT_CONFIG"

// DefaultConfigPath is $WINDOWKIT_CONFIG, else windowkit/config.yaml under
// the user config directory.
func DefaultConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv(EnvConfigPath)); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to get home directory: %w", herr)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "windowkit", "config.yaml"), nil
}

// Load reads path, or DefaultConfigPath when path is empty, together with
// everything it includes. A missing file yields the defaults.
func Load(path string) (*LoadResult, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	var l layer
	switch _, err := os.Stat(path); {
	case errors.Is(err, fs.ErrNotExist):
		l.sources = map[string]Source{}
	case err != nil:
		return nil, err
	default:
		ld := loader{seen: map[string]bool{}}
		if l, err = ld.load(path); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, locate(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// layer is one file merged over everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func (l *layer) over(top layer) {
	l.raw = l.raw.merge(top.raw)
	if l.sources == nil {
		l.sources = map[string]Source{}
	}
	for p, src := range top.sources {
		l.sources[p] = src
	}
	l.files = append(l.files, top.files...)
}

// loader walks the include graph. A file reached twice through different
// includes is merged once; a file reached again through its own chain is a
// cycle.
type loader struct {
	seen  map[string]bool
	chain []string
}

func (ld *loader) load(path string) (layer, error) {
	file := canonicalPath(path)
	if slices.Contains(ld.chain, file) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(ld.chain, " -> "), file)
	}
	if ld.seen[file] {
		return layer{}, nil
	}
	ld.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}
	sources := map[string]Source{}
	if len(doc.Content) > 0 {
		recordSources(doc.Content[0], file, "", sources)
	}

	ld.chain = append(ld.chain, file)
	defer func() { ld.chain = ld.chain[:len(ld.chain)-1] }()

	var merged layer
	for i, inc := range raw.Include {
		src := includeSource(sources, i)
		paths, err := expandInclude(file, inc)
		if err != nil {
			return layer{}, fmt.Errorf("%s: include %q: %w", src.position(), inc, err)
		}
		for _, p := range paths {
			sub, err := ld.load(p)
			if err != nil {
				return layer{}, err
			}
			merged.over(sub)
		}
	}
	merged.over(layer{raw: raw, sources: sources, files: []string{file}})
	return merged, nil
}

// includeSource finds the position of the i-th include entry, written either
// as a list item or as a single scalar.
func includeSource(sources map[string]Source, i int) Source {
	if src, ok := sources["include."+strconv.Itoa(i)]; ok {
		return src
	}
	return sources["include"]
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks so one file has one identity in the
// include graph. Unresolvable paths keep their absolute form and fail on read.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// expandInclude resolves an include entry relative to the including file.
// A directory expands to its *.yaml and *.yml files in lexical order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(include, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// recordSources stores the position of every value under node.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	visit := func(key string, val *yaml.Node) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out[path] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		recordSources(val, file, path, out)
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			visit(node.Content[i].Value, node.Content[i+1])
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			visit(strconv.Itoa(i), item)
		}
	}
}

// locate attaches the file position of a validation error's path, or of its
// closest ancestor a file wrote (a required key that was left out is blamed
// on its enclosing item).
func locate(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for path := verr.Path; path != ""; {
		if src, ok := sources[path]; ok {
			verr.Source = src
			break
		}
		i := strings.LastIndex(path, ".")
		if i < 0 {
			break
		}
		path = path[:i]
	}
	return err
}
