package zone

import (
	"strings"

	"github.com/matzehuels/zonecut/pkg/errors"
)

// Label is the closed set of semantic zone tags.
//
// The names follow the Newspaper Navigator detector classes plus the text
// classes used when annotating pages by hand.
type Label uint8

const (
	LabelOther Label = iota
	LabelHeadline
	LabelSubHeadline
	LabelText
	LabelAuthor
	LabelCaption
	LabelPhotograph
	LabelIllustration
	LabelMap
	LabelComicsCartoon
	LabelEditorialCartoon
	LabelAdvertisement
	LabelTable
	LabelPageNumber
)

var labelNames = [...]string{
	LabelOther:            "Other",
	LabelHeadline:         "Headline",
	LabelSubHeadline:      "SubHeadline",
	LabelText:             "Text",
	LabelAuthor:           "Author",
	LabelCaption:          "Caption",
	LabelPhotograph:       "Photograph",
	LabelIllustration:     "Illustration",
	LabelMap:              "Map",
	LabelComicsCartoon:    "Comics/Cartoon",
	LabelEditorialCartoon: "Editorial Cartoon",
	LabelAdvertisement:    "Advertisement",
	LabelTable:            "Table",
	LabelPageNumber:       "PageNumber",
}

// labelLookup is keyed by the normalized spelling (see normalizeLabel).
var labelLookup = func() map[string]Label {
	m := make(map[string]Label, len(labelNames)+4)
	for l, name := range labelNames {
		m[normalizeLabel(name)] = Label(l)
	}
	m["title"] = LabelHeadline
	m["subtitle"] = LabelSubHeadline
	m["figure"] = LabelIllustration
	m["ad"] = LabelAdvertisement
	return m
}()

// Labels returns every label in declaration order.
func Labels() []Label {
	out := make([]Label, len(labelNames))
	for i := range labelNames {
		out[i] = Label(i)
	}
	return out
}

// String returns the canonical label name.
func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return labelNames[LabelOther]
}

// IsText reports whether the label marks a text-bearing zone. These are the
// zones kept by text-only reading orders.
func (l Label) IsText() bool {
	switch l {
	case LabelHeadline, LabelSubHeadline, LabelText, LabelAuthor:
		return true
	}
	return false
}

// ParseLabel resolves a label name, ignoring case, spaces, underscores,
// hyphens and slashes. Unknown names return INVALID_LABEL.
func ParseLabel(s string) (Label, error) {
	if l, ok := labelLookup[normalizeLabel(s)]; ok {
		return l, nil
	}
	return LabelOther, errors.New(errors.ErrCodeInvalidLabel, "unknown label %q", s)
}

// ParseLabelLenient resolves a label name and maps unknown names to
// [LabelOther].
func ParseLabelLenient(s string) Label {
	l, _ := ParseLabel(s)
	return l
}

// MarshalText encodes the canonical name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label leniently.
func (l *Label) UnmarshalText(b []byte) error {
	*l = ParseLabelLenient(string(b))
	return nil
}

func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
