// Package simulation contains the order lifecycle engine.
//
// OrderLifecycleController plays one order's timeline: the shared store-side
// phases, then one concurrent subOrderSimulator per vendor that walks a
// delivery agent along real road routes while publishing live positions,
// and finally the aggregation of all vendor outcomes into the customer-facing
// order status. Registry and Launcher wrap the controller so each order has
// at most one cancellable run in flight.
package simulation
