// Package kernel holds value objects shared by the order and shipping models:
// identifiers, the actor performing a transition and the carrier tracking code.
package kernel
