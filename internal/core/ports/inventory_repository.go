package ports

import "context"

// InventoryRepository adjusts product stock inside the caller's transaction.
type InventoryRepository interface {
	// Restock adds quantity back to the product's stock.
	Restock(ctx context.Context, productID int64, quantity int) error
}
