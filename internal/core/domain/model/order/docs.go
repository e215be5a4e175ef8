// Package order contains the Order aggregate and its lifecycle.
//
// The lifecycle is a closed set of twelve states. Every rule about a state
// (where it may go next, what it requires on entry, what it triggers, who may
// cancel from it) lives in one lookup table in lifecycle.go; nothing else in
// the service decides whether a transition is legal.
//
//	PendingPayment ─┬─> Pending ─> Confirmed ─> Packing ─> ReadyToShip ─> Shipping ─┬─> Delivered ─┬─> Completed
//	                │      │           │           │            │                    │              └─> Refunding ─> Refunded
//	                └──────┴───────────┴───────────┴────────────┴─> Cancelled        └─> DeliveryFailed ─┬─> Shipping
//	                                                                     ^                                 │
//	                                                                     └─────────────────────────────────┘
//
// Hooks never touch storage or the network. They receive a snapshot of the
// order and return the changes and events the executor must apply inside the
// same unit of work.
package order
