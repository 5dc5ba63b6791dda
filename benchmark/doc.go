// Package benchmark compares the cost of logging through the facade on
// each backend. It holds benchmarks only.
package benchmark
