// Package chain drives the DMRG sweep: it owns the current orthogonality
// center, the boundary environments on either side of it, and the stacks
// of absorbed neighbor sites, and exposes the sweep/optimize/grow-bandwidth
// operations that move the center across the chain.
package chain
