// Package model holds the architecture snapshot consumed by the view engine.
//
// A snapshot is produced by an external static analyzer and delivered as one
// JSON document per session: a tree of components, a flat relationship list,
// and flat file and symbol lists. This package defines the wire types, the
// closed category taxonomy, and the [Snapshot] wrapper with id-indexed
// lookups.
//
// # Immutability
//
// Components and relationships are created once at load and never mutated.
// All navigation state lives elsewhere (see package view); this package
// exposes read-only accessors and derived indexes only.
//
// # Error Handling
//
// Lookups of unknown ids return (nil, false) rather than an error. Decoding
// tolerates missing fields - a structurally valid but sparse snapshot loads
// as a smaller model, never a failure.
//
// # Usage
//
//	snap, err := model.ReadFile("architecture.json")
//	if err != nil {
//	    return err
//	}
//	comp, ok := snap.Component("backend/api")
//	trail := snap.PathTo("backend/api/handlers")
package model
