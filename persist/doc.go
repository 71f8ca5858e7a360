// Package persist provides the engine's two I/O boundaries: a YAML
// serialization of an MPO operator-site sequence, and an optional
// sqlite-backed log of sweep energies a long-running chain.Chain can be
// told to append to.
package persist
