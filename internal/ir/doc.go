// Package ir provides the intermediate representation for specialized
// numeric routines.
//
// This package contains the node model, the Builder that assembles it, the
// structural error types, and the canonical encoding. It imports nothing
// internal; every other internal package builds on it.
//
// A Unit is a kind-agnostic shape built once per numeric kind: the same
// Builder calls produce the same tree for int32 and float64, only the Kind
// tags and literals differ. Operations are not resolved here; the compiler
// binds each Unit to a concrete operation table.
//
// Key constraints:
//   - Nodes are immutable once built and owned by the tree containing them
//   - Every node records its result Kind; nothing downstream infers types
//   - Malformed trees are rejected at construction (Builder) and again at
//     compilation (compiler.Check)
//   - Canonical JSON sorts keys by UTF-16 code units and NFC normalizes names
package ir
