package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Page is one newspaper page: an identifier, optional pixel dimensions and
// its zones. It encodes to the canonical page document in JSON and YAML.
type Page struct {
	ID     string
	Width  float64
	Height float64
	Zones  []zone.Zone
	// Text holds transcriptions by zone ID, when the source carried any.
	Text map[string]string
}

type document struct {
	ID     string            `json:"id" yaml:"id"`
	Width  float64           `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64           `json:"height,omitempty" yaml:"height,omitempty"`
	Zones  []zoneDoc         `json:"zones" yaml:"zones"`
	Text   map[string]string `json:"text,omitempty" yaml:"text,omitempty"`
}

type zoneDoc struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Label  string  `json:"label" yaml:"label"`
}

func (p *Page) document() document {
	doc := document{ID: p.ID, Width: p.Width, Height: p.Height, Text: p.Text, Zones: make([]zoneDoc, len(p.Zones))}
	for i, z := range p.Zones {
		doc.Zones[i] = zoneDoc{
			ID: z.ID, X: z.BBox.X, Y: z.BBox.Y, Width: z.BBox.Width, Height: z.BBox.Height,
			Label: z.Label.String(),
		}
	}
	return doc
}

func (doc document) page(strict bool) (*Page, error) {
	p := &Page{ID: doc.ID, Width: doc.Width, Height: doc.Height, Text: doc.Text, Zones: make([]zone.Zone, len(doc.Zones))}
	for i, z := range doc.Zones {
		label, err := parseLabel(z.Label, strict)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLabel, err, "zone %s", z.ID)
		}
		p.Zones[i] = zone.New(z.ID, z.X, z.Y, z.Width, z.Height, label)
	}
	return p, nil
}

func parseLabel(s string, strict bool) (zone.Label, error) {
	if strict {
		return zone.ParseLabel(s)
	}
	return zone.ParseLabelLenient(s), nil
}

// MarshalJSON encodes the canonical page document.
func (p Page) MarshalJSON() ([]byte, error) { return json.Marshal(p.document()) }

// UnmarshalJSON decodes the canonical page document. Unknown labels become
// zone.LabelOther.
func (p *Page) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := doc.page(false)
	if err != nil {
		return err
	}
	*p = *out
	return nil
}

// MarshalYAML encodes the canonical page document.
func (p Page) MarshalYAML() (any, error) { return p.document(), nil }

// UnmarshalYAML decodes the canonical page document leniently.
func (p *Page) UnmarshalYAML(value *yaml.Node) error {
	var doc document
	if err := value.Decode(&doc); err != nil {
		return err
	}
	out, err := doc.page(false)
	if err != nil {
		return err
	}
	*p = *out
	return nil
}

// Format identifies the layout of an input file.
type Format string

const (
	// FormatCanonical is the page document written by this package.
	FormatCanonical Format = "canonical"
	// FormatLabelStudio is a Label Studio result list or task export.
	FormatLabelStudio Format = "labelstudio"
	// FormatDetector is a list of detector blocks with corner boxes.
	FormatDetector Format = "detector"
)

// Formats lists the supported input formats.
var Formats = []Format{FormatCanonical, FormatLabelStudio, FormatDetector}

// ParseFormat resolves a format name. The empty string selects
// FormatCanonical.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCanonical, nil
	case FormatCanonical, FormatLabelStudio, FormatDetector:
		return f, nil
	case "label-studio", "ls":
		return FormatLabelStudio, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q (want canonical, labelstudio or detector)", s)
}

// Encoding is the serialization of a file.
type Encoding string

const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

// EncodingFor picks the encoding from a file extension; anything other
// than .yaml or .yml is JSON.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// ImportOptions controls how input files are turned into pages.
type ImportOptions struct {
	Format   Format
	Encoding Encoding
	// StrictLabels rejects unknown label names instead of mapping them to
	// zone.LabelOther.
	StrictLabels bool
	// ToPixels scales Label Studio percentage boxes by the original image
	// size.
	ToPixels bool
	// MinScore drops detector blocks scoring below it.
	MinScore float64
	// ID overrides the page ID derived from the source.
	ID string
}

// Read decodes a single page from r.
func Read(r io.Reader, opts ImportOptions) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data, opts)
}

// Decode decodes a single page from data in the given format.
func Decode(data []byte, opts ImportOptions) (*Page, error) {
	var (
		p   *Page
		err error
	)
	switch opts.Format {
	case "", FormatCanonical:
		p, err = decodeCanonical(data, opts)
	case FormatLabelStudio:
		p, err = FromLabelStudio(data, opts)
	case FormatDetector:
		p, err = FromDetector(data, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}
	if opts.ID != "" {
		p.ID = opts.ID
	}
	return p, nil
}

func decodeCanonical(data []byte, opts ImportOptions) (*Page, error) {
	var doc document
	if err := unmarshal(data, opts.Encoding, &doc); err != nil {
		return nil, err
	}
	return doc.page(opts.StrictLabels)
}

func unmarshal(data []byte, enc Encoding, v any) error {
	var err error
	if enc == YAML {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", encName(enc))
	}
	return nil
}

func encName(enc Encoding) string {
	if enc == "" {
		return string(JSON)
	}
	return string(enc)
}

// ReadFile reads a page from path. The encoding follows the extension
// unless opts.Encoding is set, and the page ID defaults to the file's base
// name without extension or "_annotations" suffix.
func ReadFile(path string, opts ImportOptions) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "page file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if opts.Encoding == "" {
		opts.Encoding = EncodingFor(path)
	}
	p, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.ID == "" {
		p.ID = IDFromPath(path)
	}
	return p, nil
}

// IDFromPath derives a page ID from a file or image path.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_annotations")
}

// Write encodes p as a canonical page document. JSON output is indented.
func Write(w io.Writer, p *Page, enc Encoding) error {
	if enc == YAML {
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(p.document()); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return e.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(p.document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes p to path, choosing the encoding from the extension.
func WriteFile(path string, p *Page) error {
	var buf bytes.Buffer
	if err := Write(&buf, p, EncodingFor(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
