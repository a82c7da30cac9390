// Package agent contains the simulated delivery partner roster.
//
// The simulation does not model real people: agents are generated identities
// whose only observable behavior is the stream of positions published while
// they carry a sub-order. The Pool hands agents out to sub-order simulations
// least-loaded first and takes them back when the drop-off completes.
package agent
