// Package testdoubles provides spy implementations of the observability
// interfaces so tests can assert on logging and metrics behavior without
// any observability infrastructure.
package testdoubles
