package service

import (
	"testing"

	"fulfillment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string, items ...models.OrderItem) OrderWithItems {
	return OrderWithItems{
		Order: models.Order{ID: id, Status: models.OrderStatusAllocated},
		Items: items,
	}
}

func TestGenerateSplitsItemAcrossLocations(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1", models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 15}),
	}
	snapshot := []models.InventoryRecord{
		{ID: "rec-a", VariantID: "variant-1", LocationID: "loc-a", QuantityOnHand: 10},
		{ID: "rec-b", VariantID: "variant-1", LocationID: "loc-b", QuantityOnHand: 20},
	}

	drafts, shortfalls := GeneratePickItems(orders, snapshot)

	require.Len(t, drafts, 2)
	assert.Empty(t, shortfalls)

	assert.Equal(t, "loc-a", drafts[0].LocationID)
	assert.Equal(t, 10, drafts[0].Quantity)
	assert.Equal(t, 1, drafts[0].PickSequence)

	assert.Equal(t, "loc-b", drafts[1].LocationID)
	assert.Equal(t, 5, drafts[1].Quantity)
	assert.Equal(t, 2, drafts[1].PickSequence)
}

func TestGenerateShortfallIsNotFatal(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1", models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 20}),
	}
	snapshot := []models.InventoryRecord{
		{ID: "rec-a", VariantID: "variant-1", LocationID: "loc-a", QuantityOnHand: 12},
	}

	drafts, shortfalls := GeneratePickItems(orders, snapshot)

	require.Len(t, drafts, 1)
	assert.Equal(t, 12, drafts[0].Quantity)
	assert.Equal(t, 1, drafts[0].PickSequence)

	require.Len(t, shortfalls, 1)
	assert.Equal(t, "order-1", shortfalls[0].OrderID)
	assert.Equal(t, "item-1", shortfalls[0].OrderItemID)
	assert.Equal(t, 8, shortfalls[0].Missing)
}

func TestGenerateItemWithNoLocationsIsDeferred(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1", models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 7}),
	}

	drafts, shortfalls := GeneratePickItems(orders, nil)

	assert.Empty(t, drafts)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, 7, shortfalls[0].Missing)
}

func TestGenerateSequenceContiguousAcrossBatch(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1",
			models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 5},
			models.OrderItem{ID: "item-2", OrderID: "order-1", VariantID: "variant-2", QuantityOrdered: 4},
		),
		order("order-2",
			models.OrderItem{ID: "item-3", OrderID: "order-2", VariantID: "variant-1", QuantityOrdered: 8},
		),
	}
	snapshot := []models.InventoryRecord{
		{ID: "rec-1", VariantID: "variant-1", LocationID: "loc-1", QuantityOnHand: 3},
		{ID: "rec-2", VariantID: "variant-1", LocationID: "loc-2", QuantityOnHand: 10},
		{ID: "rec-3", VariantID: "variant-2", LocationID: "loc-3", QuantityOnHand: 4},
	}

	drafts, shortfalls := GeneratePickItems(orders, snapshot)

	assert.Empty(t, shortfalls)
	require.Len(t, drafts, 4)

	// pick sequence runs 1..N over the whole batch, no gaps or repeats
	for i, d := range drafts {
		assert.Equal(t, i+1, d.PickSequence)
	}

	// order-1 item-1: loc-1 empties first, remainder from loc-2
	assert.Equal(t, "loc-1", drafts[0].LocationID)
	assert.Equal(t, 3, drafts[0].Quantity)
	assert.Equal(t, "loc-2", drafts[1].LocationID)
	assert.Equal(t, 2, drafts[1].Quantity)

	// order-1 item-2
	assert.Equal(t, "loc-3", drafts[2].LocationID)
	assert.Equal(t, 4, drafts[2].Quantity)

	// order-2 draws from the snapshot already depleted by order-1:
	// loc-1 is empty and loc-2 has exactly 8 left
	assert.Equal(t, "order-2", drafts[3].OrderID)
	assert.Equal(t, "loc-2", drafts[3].LocationID)
	assert.Equal(t, 8, drafts[3].Quantity)
}

func TestGenerateSnapshotSharedAcrossOrders(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1", models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 9}),
		order("order-2", models.OrderItem{ID: "item-2", OrderID: "order-2", VariantID: "variant-1", QuantityOrdered: 5}),
	}
	snapshot := []models.InventoryRecord{
		{ID: "rec-1", VariantID: "variant-1", LocationID: "loc-1", QuantityOnHand: 10},
	}

	drafts, shortfalls := GeneratePickItems(orders, snapshot)

	require.Len(t, drafts, 2)
	assert.Equal(t, 9, drafts[0].Quantity)
	assert.Equal(t, 1, drafts[1].Quantity)

	require.Len(t, shortfalls, 1)
	assert.Equal(t, "order-2", shortfalls[0].OrderID)
	assert.Equal(t, 4, shortfalls[0].Missing)
}

func TestGenerateIgnoresEmptySnapshotRows(t *testing.T) {
	orders := []OrderWithItems{
		order("order-1", models.OrderItem{ID: "item-1", OrderID: "order-1", VariantID: "variant-1", QuantityOrdered: 2}),
	}
	snapshot := []models.InventoryRecord{
		{ID: "rec-1", VariantID: "variant-1", LocationID: "loc-1", QuantityOnHand: 0},
		{ID: "rec-2", VariantID: "variant-1", LocationID: "loc-2", QuantityOnHand: 6},
	}

	drafts, shortfalls := GeneratePickItems(orders, snapshot)

	require.Len(t, drafts, 1)
	assert.Equal(t, "loc-2", drafts[0].LocationID)
	assert.Equal(t, 2, drafts[0].Quantity)
	assert.Empty(t, shortfalls)
}
