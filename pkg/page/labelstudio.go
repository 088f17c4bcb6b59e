package page

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// lsResult is one Label Studio result entry. A region usually appears
// several times under the same id: once as "rectangle", once as "labels"
// and optionally as "textarea" with its transcription.
type lsResult struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	OriginalWidth  float64 `json:"original_width"`
	OriginalHeight float64 `json:"original_height"`
	Value          struct {
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
		Labels []string `json:"labels"`
		Text   []string `json:"text"`
	} `json:"value"`
}

type lsTask struct {
	Data        map[string]any    `json:"data"`
	Annotations []json.RawMessage `json:"annotations"`
	Predictions []json.RawMessage `json:"predictions"`
}

type lsRegion struct {
	id       string
	box      zone.BBox
	hasBox   bool
	label    string
	hasLabel bool
	text     []string
}

// FromLabelStudio converts a Label Studio annotation into a page.
//
// data is either a result list or a task object carrying "annotations" or
// "predictions"; the first non-empty result list of the task is used.
// Entries sharing an id are merged into one region. Regions without a
// label are skipped. Boxes stay in percentage space (the page is then 100
// by 100) unless opts.ToPixels is set, in which case they are scaled by the
// original image size.
func FromLabelStudio(data []byte, opts ImportOptions) (*Page, error) {
	results, id, err := labelStudioResults(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var (
		regions []*lsRegion
		byID    = make(map[string]*lsRegion)
		origW   float64
		origH   float64
	)
	for _, r := range results {
		if r.OriginalWidth > 0 {
			origW, origH = r.OriginalWidth, r.OriginalHeight
		}
		reg, ok := byID[r.ID]
		if !ok {
			reg = &lsRegion{id: r.ID}
			byID[r.ID] = reg
			regions = append(regions, reg)
		}
		v := r.Value
		if v.X != nil && v.Y != nil && v.Width != nil && v.Height != nil {
			reg.box = zone.BBox{X: *v.X, Y: *v.Y, Width: *v.Width, Height: *v.Height}
			reg.hasBox = true
		}
		if len(v.Labels) > 0 {
			reg.label, reg.hasLabel = v.Labels[0], true
		}
		if len(v.Text) > 0 {
			reg.text = v.Text
		}
	}

	p := &Page{ID: id, Width: 100, Height: 100}
	if opts.ToPixels {
		if origW <= 0 || origH <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "label studio: original_width/original_height required to convert to pixels")
		}
		p.Width, p.Height = origW, origH
	}

	for _, reg := range regions {
		if !reg.hasLabel || !reg.hasBox {
			continue
		}
		label, err := parseLabel(reg.label, opts.StrictLabels)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLabel, err, "label studio region %s", reg.id)
		}
		box := reg.box
		if opts.ToPixels {
			box = box.Scale(origW/100, origH/100)
		}
		p.Zones = append(p.Zones, zone.Zone{ID: reg.id, BBox: box, Label: label})
		if len(reg.text) > 0 {
			if p.Text == nil {
				p.Text = make(map[string]string)
			}
			p.Text[reg.id] = strings.Join(reg.text, " ")
		}
	}
	return p, nil
}

// labelStudioResults extracts the result list and, for tasks, a page ID
// from the task's image reference.
func labelStudioResults(data []byte, enc Encoding) ([]lsResult, string, error) {
	if enc == YAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, "", err
		}
		data = converted
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, "", nil
	}
	if trimmed[0] == '[' {
		var results []lsResult
		if err := unmarshal(trimmed, JSON, &results); err != nil {
			return nil, "", err
		}
		return results, "", nil
	}

	var task lsTask
	if err := unmarshal(trimmed, JSON, &task); err != nil {
		return nil, "", err
	}
	id := taskPageID(task.Data)
	for _, raw := range append(task.Annotations, task.Predictions...) {
		results, err := resultList(raw)
		if err != nil {
			return nil, "", err
		}
		if len(results) > 0 {
			return results, id, nil
		}
	}
	return nil, id, nil
}

// resultList accepts {"result": [...]} or a bare result list.
func resultList(raw json.RawMessage) ([]lsResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var results []lsResult
		if err := unmarshal(raw, JSON, &results); err != nil {
			return nil, err
		}
		return results, nil
	}
	var wrapper struct {
		Result []lsResult `json:"result"`
	}
	if err := unmarshal(raw, JSON, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Result, nil
}

func taskPageID(data map[string]any) string {
	for _, key := range []string{"ocr", "image"} {
		if s, ok := data[key].(string); ok && s != "" {
			return IDFromPath(s)
		}
	}
	return ""
}
