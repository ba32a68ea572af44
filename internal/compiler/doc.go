// Package compiler turns a checked ir.Unit into an invocable Routine.
//
// Compilation happens once per (unit, machine type): Compile walks the tree,
// binds every operator to the ops table of the unit's kind, and emits a tree
// of closures over a per-invocation frame. Nothing is interpreted by node
// type at call time.
//
// Loops and labeled breaks are modeled without panics: every closure returns
// a signal alongside its value. Break sets the pending label and returns
// broken; enclosing nodes propagate broken untouched; the Loop owning the
// label consumes it and yields the carried value.
//
//	compile(unit) ──Check──▶ Resolve[T](unit.Kind) ──walk──▶ Routine[T]
//
// Compilation is synchronous, deterministic and performs no I/O.
package compiler
