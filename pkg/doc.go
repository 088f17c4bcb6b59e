// Package pkg provides the libraries behind zonecut: reading order and
// article reconstruction for annotated newspaper pages.
//
// # Overview
//
// A page is a set of zones: labeled bounding boxes produced by a layout
// detector or drawn by hand in Label Studio. zonecut answers two questions
// about them: in which order should the zones be read, and which zones
// belong to the same story. The pkg directory is organized into three
// areas:
//
//  1. Domain logic ([zone], [xycut], [article]) - pure functions over zones
//  2. Input and output ([page], [render]) - file formats and diagrams
//  3. Infrastructure ([pipeline], [cache], [store], [server]) - caching,
//     persistence and the HTTP API around the domain logic
//
// # Architecture
//
// The typical data flow through zonecut:
//
//	Label Studio export / detector output / page document
//	         ↓
//	    [page] package (decode into zones)
//	         ↓
//	    [zone] package (validate or drop invalid zones)
//	         ↓
//	    [xycut] reading order  ‖  [article] weighted graph + clustering
//	         ↓
//	    [pipeline] result (cached in [cache], persisted in [store])
//	         ↓
//	    JSON / tables / [render] diagrams / [server] responses
//
// # Quick Start
//
// Order the zones of a page and group them into articles:
//
//	import (
//	    "github.com/matzehuels/zonecut/pkg/article"
//	    "github.com/matzehuels/zonecut/pkg/page"
//	    "github.com/matzehuels/zonecut/pkg/xycut"
//	)
//
//	p, _ := page.ReadFile("page.json", page.ImportOptions{})
//
//	// 1. Reading order
//	order := xycut.New(xycut.Options{MinValue: 0, MinGap: 1}).Order(p.Zones)
//
//	// 2. Articles
//	res, graph, _ := article.Reconstruct(p.Zones, article.DefaultWeightConfig(), article.Options{})
//
// # Main Packages
//
// [zone] - Bounding boxes, the closed label set and zone validation.
//
// [xycut] - Recursive XY-cut over occupancy histograms. Splits a region at
// the widest empty band until every region holds one zone.
//
// [article] - The forward-only spatial graph of a page (distance, alignment
// and label bonuses) and best-first clustering seeded by headlines.
//
// [page] - Canonical page documents in JSON and YAML, Label Studio and
// detector imports, and multi-page manifests.
//
// [pipeline] - The complete analysis used by the CLI and the HTTP API.
// Ensures consistent behavior across all entry points.
//
// [cache] - Result cache with file, Redis and null backends.
//
// [store] - Persisted analysis runs with memory and MongoDB backends.
//
// [render] - Graphviz diagrams of the article graph ([render/nodelink]) and
// SVG to PDF/PNG conversion.
//
// [server] - The chi-based HTTP API.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for logging and metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/xycut/...    # Specific package
//	go test -run Example       # Examples only
//
// [zone]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/zone
// [xycut]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/xycut
// [article]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/article
// [page]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/page
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/store
// [render]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/zonecut/pkg/observability
package pkg
