// Package zone defines the labeled page regions that zonecut orders and
// groups into articles.
//
// # Overview
//
// A [Zone] is a rectangular region detected on a newspaper page together
// with a semantic [Label] (Headline, Text, Photograph, ...). Zones are
// produced upstream by a layout detector or an annotation tool and are the
// only input of the reading-order cutter (package xycut) and the article
// clusterer (package article).
//
// Zones are immutable values. Both algorithms receive the same slice and
// neither modifies it; per-pair diagnostics are returned separately by the
// graph builder instead of being written back onto the zone.
//
// # Coordinates
//
// [BBox] uses a top-left origin with Y growing downward, which is the
// convention of image detectors and Label Studio. All zones of a page must
// share one coordinate space (pixels or percent of the page); mixing spaces
// makes both the projection histograms and the distance heuristic
// meaningless.
//
// # Validation
//
// Zones with a non-positive width or height carry no occupancy and must not
// reach the algorithms. [Validate] rejects a page containing such zones with
// an INVALID_ZONE error; [Filter] drops them and reports what was dropped, so
// one bad detection does not fail the whole page. Validation happens once at
// the boundary; the algorithms assume well-formed input.
package zone
