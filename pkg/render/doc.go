// Package render turns layout snapshots into inspectable output.
//
// Two sinks are provided: an SVG rendering of the grid for sharing or
// documentation, and a plain-text cell grid for terminals. Both are pure
// functions of the snapshot; neither talks to an engine or a store.
package render
