package xycut_test

import (
	"fmt"

	"github.com/matzehuels/zonecut/pkg/xycut"
	"github.com/matzehuels/zonecut/pkg/zone"
)

func ExampleOrder() {
	// A headline spanning two text columns.
	zones := []zone.Zone{
		zone.New("col2", 310, 80, 280, 600, zone.LabelText),
		zone.New("col1", 10, 80, 280, 600, zone.LabelText),
		zone.New("head", 10, 10, 580, 50, zone.LabelHeadline),
	}

	fmt.Println(xycut.Order(zones))
	// Output: [head col1 col2]
}

func ExampleSplitProfile() {
	boxes := []zone.BBox{
		{X: 0, Y: 0, Width: 4, Height: 1},
		{X: 8, Y: 0, Width: 3, Height: 1},
	}
	profile := xycut.Project(boxes, xycut.AxisX)
	segs, ok := xycut.SplitProfile(profile, 0, 1)

	fmt.Println(profile)
	fmt.Println(segs, ok)
	// Output:
	// [1 1 1 1 0 0 0 0 1 1 1]
	// [{0 4} {8 11}] true
}

func ExampleCutter_Order() {
	// Percentage coordinates: the two columns are only half a percent
	// apart, so the cutter rasterizes at ten positions per unit.
	c := xycut.New(xycut.Options{MinGap: 1, Resolution: 10})
	zones := []zone.Zone{
		zone.New("right", 50.5, 10, 49, 80, zone.LabelText),
		zone.New("left", 0, 20, 50, 70, zone.LabelText),
	}

	fmt.Println(c.Order(zones))
	// Output: [left right]
}
