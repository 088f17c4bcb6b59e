package zone

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/zonecut/pkg/errors"
)

func TestBBoxGeometry(t *testing.T) {
	a := BBox{X: 0, Y: 0, Width: 100, Height: 20}
	b := BBox{X: 50, Y: 20, Width: 100, Height: 200}
	c := BBox{X: 200, Y: 0, Width: 100, Height: 100}

	if got := a.XOverlap(b); got != 50 {
		t.Errorf("XOverlap(a, b) = %v, want 50", got)
	}
	if got := a.XOverlap(c); got != 0 {
		t.Errorf("XOverlap(a, c) = %v, want 0", got)
	}
	if got := a.YOverlap(c); got != 20 {
		t.Errorf("YOverlap(a, c) = %v, want 20", got)
	}
	if got := a.CornerDistance(c); got != 200 {
		t.Errorf("CornerDistance(a, c) = %v, want 200", got)
	}
	if got := a.Right(); got != 100 {
		t.Errorf("Right() = %v, want 100", got)
	}
	if got := b.Bottom(); got != 220 {
		t.Errorf("Bottom() = %v, want 220", got)
	}
}

func TestNewBBoxFromCorners(t *testing.T) {
	got := NewBBoxFromCorners(30, 40, 10, 20)
	want := BBox{X: 10, Y: 20, Width: 20, Height: 20}
	if got != want {
		t.Errorf("NewBBoxFromCorners = %+v, want %+v", got, want)
	}
}

func TestBBoxScale(t *testing.T) {
	got := BBox{X: 10, Y: 50, Width: 20, Height: 5}.Scale(20, 30)
	want := BBox{X: 200, Y: 1500, Width: 400, Height: 150}
	if got != want {
		t.Errorf("Scale = %+v, want %+v", got, want)
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"Headline", LabelHeadline, false},
		{"headline", LabelHeadline, false},
		{"SubHeadline", LabelSubHeadline, false},
		{"sub_headline", LabelSubHeadline, false},
		{"Text", LabelText, false},
		{"Comics/Cartoon", LabelComicsCartoon, false},
		{"Editorial Cartoon", LabelEditorialCartoon, false},
		{"Advertisement", LabelAdvertisement, false},
		{"title", LabelHeadline, false},
		{"Banner", LabelOther, true},
		{"", LabelOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLabel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidLabel) {
				t.Errorf("ParseLabel(%q) code = %v", tt.in, errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabelRoundTripNames(t *testing.T) {
	for _, l := range Labels() {
		got, err := ParseLabel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLabel(%q) = %v, %v; want %v", l.String(), got, err, l)
		}
	}
}

func TestLabelIsText(t *testing.T) {
	text := map[Label]bool{LabelHeadline: true, LabelSubHeadline: true, LabelText: true, LabelAuthor: true}
	for _, l := range Labels() {
		if got := l.IsText(); got != text[l] {
			t.Errorf("%v.IsText() = %v, want %v", l, got, text[l])
		}
	}
}

func TestZoneJSONLabel(t *testing.T) {
	var z Zone
	if err := json.Unmarshal([]byte(`{"id":"a","bbox":{"x":1,"y":2,"width":3,"height":4},"label":"photograph"}`), &z); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if z.Label != LabelPhotograph {
		t.Errorf("Label = %v, want Photograph", z.Label)
	}
	data, err := json.Marshal(z)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"a","bbox":{"x":1,"y":2,"width":3,"height":4},"label":"Photograph"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		z    Zone
		code errors.Code
	}{
		{"valid", New("a", 0, 0, 10, 10, LabelText), ""},
		{"negative origin is fine", New("a", -5, -5, 10, 10, LabelText), ""},
		{"zero width", New("a", 0, 0, 0, 10, LabelText), errors.ErrCodeInvalidZone},
		{"negative height", New("a", 0, 0, 10, -1, LabelText), errors.ErrCodeInvalidZone},
		{"nan", New("a", math.NaN(), 0, 10, 10, LabelText), errors.ErrCodeInvalidZone},
		{"inf", New("a", 0, 0, math.Inf(1), 10, LabelText), errors.ErrCodeInvalidZone},
		{"empty id", New("", 0, 0, 10, 10, LabelText), errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.z)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Check() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil) = %v, want nil", err)
	}

	ok := []Zone{New("a", 0, 0, 10, 10, LabelHeadline), New("b", 0, 10, 10, 10, LabelText)}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	dup := append(ok, New("a", 0, 50, 10, 10, LabelText))
	if err := Validate(dup); !errors.Is(err, errors.ErrCodeDuplicateZone) {
		t.Errorf("Validate(dup) = %v, want DUPLICATE_ZONE_ID", err)
	}

	bad := append(ok, New("c", 0, 50, 0, 10, LabelText))
	if err := Validate(bad); !errors.Is(err, errors.ErrCodeInvalidZone) {
		t.Errorf("Validate(bad) = %v, want INVALID_ZONE", err)
	}
}

func TestFilter(t *testing.T) {
	in := []Zone{
		New("a", 0, 0, 10, 10, LabelHeadline),
		New("b", 0, 10, 0, 10, LabelText),
		New("c", 0, 20, 10, 10, LabelText),
		New("a", 0, 30, 10, 10, LabelText),
	}
	kept, dropped := Filter(in)

	if got := IDs(kept); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("kept = %v, want [a c]", got)
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped = %d, want 2", len(dropped))
	}
	if dropped[0].ID != "b" || !errors.Is(dropped[0].Err, errors.ErrCodeInvalidZone) {
		t.Errorf("dropped[0] = %+v", dropped[0])
	}
	if dropped[1].ID != "a" || !errors.Is(dropped[1].Err, errors.ErrCodeDuplicateZone) {
		t.Errorf("dropped[1] = %+v", dropped[1])
	}
	if in[1].ID != "b" || len(in) != 4 {
		t.Error("Filter must not modify its input")
	}
}

func TestIndex(t *testing.T) {
	idx := Index([]Zone{New("x", 0, 0, 1, 1, LabelText), New("y", 0, 0, 1, 1, LabelText)})
	if idx["x"] != 0 || idx["y"] != 1 {
		t.Errorf("Index = %v", idx)
	}
}
