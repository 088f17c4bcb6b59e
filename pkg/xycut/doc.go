// Package xycut orders page zones into a human reading order with the
// recursive XY-cut algorithm.
//
// # Overview
//
// XY-cut projects the boxes of a region onto one axis, counts how many boxes
// cover every integer position (the occupancy histogram, see [Project]) and
// cuts the region wherever the histogram has a gap (see [SplitProfile]).
// Cutting alternates between the vertical axis (horizontal bands, read top
// to bottom) and the horizontal axis (columns, read left to right) until a
// region can no longer be split.
//
//	┌───────────────────────────┐
//	│ band 0: headline          │   ← split on Y
//	├─────────────┬─────────────┤
//	│ col 0       │ col 1       │   ← split on X, recurse per column
//	│             │             │
//	└─────────────┴─────────────┘
//
// # Determinism
//
// [Cutter.Order] is a pure function of its input: it never mutates the
// zone slice and uses no randomness. Leaves that cannot be split are
// ordered by top coordinate, then left coordinate, then input position,
// so overlapping or degenerate geometry still yields one exact order.
//
// # Termination
//
// Every recursion step works on a strict subset of its parent's zones. A
// region that cannot be separated on the Y axis falls back to the stable
// leaf order instead of recursing, and a column that would contain the whole
// region is treated as a leaf. The output is always a permutation of the
// input: every zone appears exactly once.
//
// # Parameters
//
// [Options.MinValue] is the occupancy a position must exceed to count as
// occupied (default 0). [Options.MinGap] is the longest run of empty
// positions that is still considered part of one band (default 1), which
// keeps small visual gaps from splitting a logical block.
// [Options.Resolution] scales coordinates before rasterization so that
// percentage-based boxes (0-100) can be cut at sub-percent precision. Both
// thresholds count histogram positions, so raising the resolution shrinks
// MinGap in coordinate units.
//
// Histograms never grow beyond [MaxPositions]; edges past it are clamped.
// Callers that accept untrusted pages should reject them with
// [CheckExtent] first.
//
// # Bands
//
// [Bands] is a simpler line-based order: zones whose vertical centers lie
// within half the median zone height form a band, bands are read top to
// bottom and zones within a band left to right. It suits pages of text
// lines and ignores columns. [Strategy] selects between the two.
package xycut
