// Package order provides domain entities and business logic for order fulfillment.
// It implements the Order aggregate root, the per-vendor SubOrder entity, the
// append-only StatusEvent record, and the Status state machine shared by all three.
//
// Key business rules:
//   - Statuses follow the fixed phase sequence from pending_at_store to
//     order_delivered, with order_cancelled as an alternate terminal phase
//   - Status progression is monotonically non-decreasing; duplicates are allowed,
//     regressions are not
//   - An order reaches order_delivered only when every sub-order has
//   - Status wire names are part of the contract consumed by external observers
//
// The package follows Domain-Driven Design principles: private fields, validated
// constructors, and behavior methods that enforce the invariants.
package order
