// Package grid defines the core data model for dashboard grid layouts.
//
// A layout is a [Snapshot]: an ordered set of [Node] values, each describing
// one widget's identity, geometry, and minimum-size constraints on a
// column-based grid. Snapshots are compared and joined by node ID; positions
// and sizes are the mutable payload.
//
// The package also provides the layout validator ([Validate]) used to gate
// persisted layouts before they are trusted, and the wire codec
// ([MarshalPlacements], [UnmarshalPlacements]) for the constraint-free
// serialized form used by durable storage and clipboard export.
//
// All functions in this package are pure; nothing here touches an engine or
// a store.
package grid
