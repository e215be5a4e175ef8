// Package services holds domain logic that spans the order and shipping models.
//
// The package includes:
//   - CarrierStatusTranslator: maps carrier-reported shipment statuses onto
//     lifecycle targets and decides whether a report should move an order
package services
