package page

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Block is one layout detector output: a class name, a confidence score and
// a corner box [x1, y1, x2, y2] in pixels.
type Block struct {
	Type  string     `json:"type" yaml:"type"`
	Score float64    `json:"score" yaml:"score"`
	BBox  [4]float64 `json:"bbox" yaml:"bbox"`
}

type detectorDoc struct {
	Image  string  `json:"image"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Blocks []Block `json:"blocks"`
}

// FromDetector converts detector blocks into a page. data is either a
// block list or an object {"image", "width", "height", "blocks"}. Zone IDs
// are the block indices in the input, so they stay stable when
// opts.MinScore filters blocks out.
func FromDetector(data []byte, opts ImportOptions) (*Page, error) {
	if opts.Encoding == YAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	var doc detectorDoc
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := unmarshal(trimmed, JSON, &doc.Blocks); err != nil {
			return nil, err
		}
	} else if err := unmarshal(trimmed, JSON, &doc); err != nil {
		return nil, err
	}

	p := &Page{Width: doc.Width, Height: doc.Height}
	if doc.Image != "" {
		p.ID = IDFromPath(doc.Image)
	}
	for i, b := range doc.Blocks {
		if b.Score < opts.MinScore {
			continue
		}
		label, err := parseLabel(b.Type, opts.StrictLabels)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLabel, err, "detector block %d", i)
		}
		p.Zones = append(p.Zones, zone.Zone{
			ID:    strconv.Itoa(i),
			BBox:  zone.NewBBoxFromCorners(b.BBox[0], b.BBox[1], b.BBox[2], b.BBox[3]),
			Label: label,
		})
	}
	return p, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the JSON-shaped
// importers can share one decoding path.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert yaml")
	}
	return out, nil
}
