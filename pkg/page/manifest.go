package page

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/zonecut/pkg/errors"
)

// Manifest groups annotated pages by publication.
type Manifest struct {
	Publications map[string]Publication `json:"publications"`
}

// Publication is one newspaper issue.
type Publication struct {
	Name  string         `json:"name"`
	Pages []ManifestPage `json:"pages"`
}

// ManifestPage references a page image and carries its Label Studio
// annotation (task object or result list).
type ManifestPage struct {
	Image       string          `json:"image"`
	Annotations json.RawMessage `json:"annotations"`
}

// Entry is a page loaded from a manifest.
type Entry struct {
	Publication string
	Image       string
	Page        *Page
}

// ReadManifest loads every page of a manifest file. Publications are
// visited in name order and pages in manifest order. Each page ID is the
// image base name; opts.Format is ignored since manifests always carry
// Label Studio annotations.
func ReadManifest(path string, opts ImportOptions) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if EncodingFor(path) == YAML {
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return DecodeManifest(data, opts)
}

// DecodeManifest is ReadManifest for JSON data already in memory.
func DecodeManifest(data []byte, opts ImportOptions) ([]Entry, error) {
	var m Manifest
	if err := unmarshal(data, JSON, &m); err != nil {
		return nil, err
	}
	if m.Publications == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "manifest has no publications")
	}

	opts.Encoding = JSON
	opts.ID = ""
	var out []Entry
	for _, name := range slices.Sorted(maps.Keys(m.Publications)) {
		pub := m.Publications[name]
		for i, mp := range pub.Pages {
			p, err := FromLabelStudio(mp.Annotations, opts)
			if err != nil {
				return nil, fmt.Errorf("publication %s page %d: %w", name, i, err)
			}
			p.ID = IDFromPath(mp.Image)
			out = append(out, Entry{Publication: name, Image: mp.Image, Page: p})
		}
	}
	return out, nil
}

// IsManifest reports whether data looks like a manifest document.
func IsManifest(data []byte) bool {
	var probe struct {
		Publications json.RawMessage `json:"publications"`
	}
	return json.Unmarshal(data, &probe) == nil && len(probe.Publications) > 0
}

// IsManifestFile reports whether the JSON or YAML file at path is a
// manifest document.
func IsManifestFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if EncodingFor(path) == YAML {
		if data, err = yamlToJSON(data); err != nil {
			return false, nil
		}
	}
	return IsManifest(data), nil
}
