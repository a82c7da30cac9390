// Package services provides domain services that operate across aggregates.
//
// The package includes:
//   - PathPlanner: turns routing polylines into per-tick movement waypoints
//     and picks spawn points for delivery agents
//
// Domain services hold logic that does not belong to a single aggregate root,
// following Domain-Driven Design principles.
package services
