package service

import (
	"sort"

	"fulfillment-service/internal/models"
)

// OrderWithItems pairs an order with its line items for generation
type OrderWithItems struct {
	Order models.Order
	Items []models.OrderItem
}

// locationStock is the generator's mutable view of one ledger row
type locationStock struct {
	locationID string
	onHand     int
}

// GeneratePickItems turns a batch of orders into sequenced pick instructions.
// It is a pure function over the inventory snapshot: for each order item the
// ordered quantity is split across the variant's locations with remaining
// stock, smallest piles first, so near-empty locations are cleared before
// fuller ones are touched. The snapshot is shared and decremented across the
// whole batch, and pickSequence runs contiguously 1..N over the batch rather
// than per order.
//
// A shortfall is not an error: the generator emits what it can cover and
// reports the unmet remainder as a warning for the backorder cycle. An item
// with no available locations contributes zero drafts.
func GeneratePickItems(orders []OrderWithItems, snapshot []models.InventoryRecord) ([]models.PickListItemDraft, []models.ShortfallWarning) {
	stock := make(map[string][]*locationStock)
	for _, rec := range snapshot {
		if rec.QuantityOnHand <= 0 {
			continue
		}
		stock[rec.VariantID] = append(stock[rec.VariantID], &locationStock{
			locationID: rec.LocationID,
			onHand:     rec.QuantityOnHand,
		})
	}
	for _, rows := range stock {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].onHand < rows[j].onHand
		})
	}

	var drafts []models.PickListItemDraft
	var shortfalls []models.ShortfallWarning
	sequence := 0

	for _, ow := range orders {
		for _, item := range ow.Items {
			remaining := item.QuantityOrdered

			for _, row := range stock[item.VariantID] {
				if remaining == 0 {
					break
				}
				if row.onHand == 0 {
					continue
				}

				take := remaining
				if row.onHand < take {
					take = row.onHand
				}

				sequence++
				drafts = append(drafts, models.PickListItemDraft{
					OrderID:      ow.Order.ID,
					OrderItemID:  item.ID,
					VariantID:    item.VariantID,
					LocationID:   row.locationID,
					Quantity:     take,
					PickSequence: sequence,
				})

				row.onHand -= take
				remaining -= take
			}

			if remaining > 0 {
				shortfalls = append(shortfalls, models.ShortfallWarning{
					OrderID:     ow.Order.ID,
					OrderItemID: item.ID,
					VariantID:   item.VariantID,
					Missing:     remaining,
				})
			}
		}
	}

	return drafts, shortfalls
}
