// Package specialize builds, compiles and caches the two specialized
// algorithms: a dot product over every numeric kind and an iterative
// factorial.
//
// Each algorithm is an ir.Unit built once per kind and compiled by
// compiler.Compile. Compiled routines are memoized in a Cache keyed by
// (algorithm, kind), so repeated requests for the same specialization share
// one Routine. Compilations are logged at debug level and reported as
// OpenTelemetry spans and counters.
package specialize
