// Package pkg provides the core libraries for Archview codebase visualization.
//
// # Overview
//
// Archview turns a pre-computed codebase analysis snapshot into an
// interactive node-and-edge diagram. The pkg directory is organized into
// three main areas:
//
//  1. [model] - The snapshot data model (component tree, relationships,
//     symbols) plus indexing and IO
//  2. [view] - The view engine (classification, flattening, drilling,
//     filtering, async layout coordination, edge routing)
//  3. [layout] - Layout engines ([layout/layered] built in,
//     [layout/dot] graphviz)
//
// Supporting packages: [cache] (layout result cache), [session]
// (navigation state persistence), [store] (snapshot catalogs), [search]
// (name lookup), [errors] (structured error codes) and [observability]
// (instrumentation hooks).
//
// # Architecture
//
// The typical data flow through Archview:
//
//	Analysis Snapshot (JSON)
//	         |
//	    [model] package (parse + index)
//	         |
//	    [view] package (flatten / drill / filter)
//	         |
//	    [layout] engine (position nodes)
//	         |
//	    [view] coordinator (apply + route edges)
//	         |
//	    CLI tables, TUI, HTTP API, SVG/DOT export
//
// # Quick Start
//
// Load a snapshot and compute a positioned top-level view:
//
//	snap, err := model.ReadFile("shop.json")
//	if err != nil {
//	    return err
//	}
//	v := view.New(snap, view.Options{
//	    Coordinator: view.CoordinatorOptions{Engine: layered.New()},
//	})
//	defer v.Close()
//	v.Refresh(ctx)
//
// Positions arrive asynchronously; register CoordinatorOptions.OnUpdate to
// learn when v.Nodes() carries fresh geometry.
package pkg
