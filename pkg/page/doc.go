// Package page reads and writes newspaper page documents.
//
// # Canonical Format
//
// The canonical page document is JSON (or YAML, chosen by file extension):
//
//	{
//	  "id": "page-001",
//	  "width": 2400,
//	  "height": 3600,
//	  "zones": [
//	    {"id": "0", "x": 120, "y": 80, "width": 2100, "height": 240, "label": "Headline"},
//	    {"id": "1", "x": 120, "y": 340, "width": 1000, "height": 1800, "label": "Text"}
//	  ]
//	}
//
// Required:
//   - id: page identifier (defaults to the file name when read from disk)
//   - zones: every zone needs id, x, y, width, height and label
//
// Optional:
//   - width, height: page size in the zones' coordinate space
//   - text: transcriptions keyed by zone id
//
// Labels are matched case-insensitively ("headline", "Comics/Cartoon",
// "editorial_cartoon"). Unknown labels map to Other unless
// [ImportOptions.StrictLabels] is set.
//
// # Importers
//
// [FromLabelStudio] reads Label Studio exports. Results sharing an id (the
// rectangle, its labels and its transcription) are merged into one zone;
// regions without labels are skipped. Coordinates are percentages unless
// [ImportOptions.ToPixels] is set.
//
// [FromDetector] reads layout detector output: blocks with a class name,
// score and corner box. Zone IDs are block indices.
//
// [ReadManifest] loads every page of a multi-publication manifest.
//
// # Export
//
// Use [Write] or [WriteFile] to emit the canonical document. Import
// followed by export is lossless for canonical input.
package page
