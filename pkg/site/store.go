package site

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the descriptor format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported site descriptor format: %s", ext)
	}
}

// Store is a source of site descriptors.
type Store interface {
	// Load reads and validates every descriptor, keyed by site identifier.
	Load() (map[string]Config, error)
}

// document is the top-level descriptor file layout.
type document struct {
	Sites map[string]Config `json:"sites" yaml:"sites"`
}

var validate = validator.New()

// Parse decodes and validates a descriptor document.
func Parse(data []byte, format Format) (map[string]Config, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON site descriptors: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML site descriptors: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported site descriptor format: %s", format)
	}

	ids := make([]string, 0, len(doc.Sites))
	for id := range doc.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sites := make(map[string]Config, len(doc.Sites))
	for _, id := range ids {
		cfg := doc.Sites[id]
		cfg.ID = id
		cfg.canonicalize()
		if err := validate.Struct(cfg); err != nil {
			return nil, &ValidationError{ID: id, Err: err}
		}
		sites[id] = cfg
	}
	return sites, nil
}

// FileStore reads descriptors from a JSON or YAML file on every Load.
type FileStore struct {
	Path string
}

// Load implements Store.
func (s FileStore) Load() (map[string]Config, error) {
	format, err := FormatFromPath(s.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site descriptors: %w", err)
	}
	return Parse(data, format)
}

type bytesStore struct {
	data   []byte
	format Format
}

// BytesStore returns a Store backed by an in-memory document.
func BytesStore(data []byte, format Format) Store {
	return bytesStore{data: data, format: format}
}

func (s bytesStore) Load() (map[string]Config, error) {
	return Parse(s.data, s.format)
}

//go:embed sites.json
var builtinSites []byte

// EmbeddedStore returns the descriptors compiled into the binary.
func EmbeddedStore() Store {
	return BytesStore(builtinSites, FormatJSON)
}
