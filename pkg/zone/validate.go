package zone

import (
	"math"

	"github.com/matzehuels/zonecut/pkg/errors"
)

// Dropped records a zone removed by [Filter] and the reason it was rejected.
type Dropped struct {
	ID     string `json:"id" bson:"id"`
	Reason string `json:"reason" bson:"reason"`
	Err    error  `json:"-" bson:"-"`
}

// Check validates the geometry and identity of a single zone.
// It returns an INVALID_ZONE error for non-finite coordinates or a
// non-positive width or height, and INVALID_INPUT for an unusable ID.
func Check(z Zone) error {
	if err := errors.ValidateID("zone", z.ID); err != nil {
		return err
	}
	b := z.BBox
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidZone, "zone %s: coordinates must be finite", z.ID)
		}
	}
	if b.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidZone, "zone %s: width must be positive (got %g)", z.ID, b.Width)
	}
	if b.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidZone, "zone %s: height must be positive (got %g)", z.ID, b.Height)
	}
	return nil
}

// Validate checks every zone of a page and rejects the page on the first
// invalid or duplicated zone. An empty page is valid.
func Validate(zones []Zone) error {
	seen := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		if err := Check(z); err != nil {
			return err
		}
		if _, dup := seen[z.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateZone, "duplicate zone id %q", z.ID)
		}
		seen[z.ID] = struct{}{}
	}
	return nil
}

// Filter returns the zones that pass [Check], keeping the first zone for
// each duplicated ID. The input slice is not modified; order is preserved.
func Filter(zones []Zone) ([]Zone, []Dropped) {
	kept := make([]Zone, 0, len(zones))
	var dropped []Dropped
	seen := make(map[string]struct{}, len(zones))

	for _, z := range zones {
		err := Check(z)
		if err == nil {
			if _, dup := seen[z.ID]; dup {
				err = errors.New(errors.ErrCodeDuplicateZone, "duplicate zone id %q", z.ID)
			}
		}
		if err != nil {
			dropped = append(dropped, Dropped{ID: z.ID, Reason: errors.UserMessage(err), Err: err})
			continue
		}
		seen[z.ID] = struct{}{}
		kept = append(kept, z)
	}
	return kept, dropped
}
