package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// costScale is the number of decimal places kept on per-unit costs
const costScale = 2

// InsufficientInventoryError reports a costing request that the available
// batches cannot cover. It carries both sides so callers can surface the
// exact shortfall.
type InsufficientInventoryError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: requested %s, available %s",
		e.Requested.String(), e.Available.String())
}

// BatchConsumption records how much of one batch a costing pass would take
type BatchConsumption struct {
	BatchID  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// CostResult is the outcome of a FIFO cost calculation. UnitCost is the
// quantity-weighted average over the consumed batches rounded to two places,
// TotalCost the unrounded sum of quantity times batch cost.
type CostResult struct {
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Consumptions []BatchConsumption
}

// SortBatchesFIFO orders batches oldest receipt first. Ties on received date
// fall back to creation time, then ID, so the walk order is deterministic.
func SortBatchesFIFO(batches []*InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ReceivedDate.Equal(batches[j].ReceivedDate) {
			return batches[i].ReceivedDate.Before(batches[j].ReceivedDate)
		}
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		return batches[i].ID.String() < batches[j].ID.String()
	})
}

// FIFOCost computes the unit cost of taking quantity units out of the given
// batches in FIFO order. Batches are not mutated; the caller applies the
// returned consumptions via DeductFIFO when it commits.
//
// When no batches exist at all the default cost is used as a flat per-unit
// cost, matching the behavior for products costed before any receipt was
// recorded. When batches exist but cannot cover the request the calculation
// fails with InsufficientInventoryError.
func FIFOCost(batches []*InventoryBatch, quantity decimal.Decimal, defaultCost *decimal.Decimal) (*CostResult, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity.String())
	}

	if len(batches) == 0 {
		if defaultCost == nil {
			return nil, &InsufficientInventoryError{Requested: quantity, Available: decimal.Zero}
		}
		unit := defaultCost.Round(costScale)
		return &CostResult{
			UnitCost:  unit,
			TotalCost: unit.Mul(quantity),
		}, nil
	}

	sorted := make([]*InventoryBatch, len(batches))
	copy(sorted, batches)
	SortBatchesFIFO(sorted)

	remaining := quantity
	totalCost := decimal.Zero
	consumed := decimal.Zero
	var consumptions []BatchConsumption

	for _, b := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if !b.HasStock() {
			continue
		}
		take := decimal.Min(b.RemainingQuantity, remaining)
		totalCost = totalCost.Add(take.Mul(b.UnitCost))
		consumed = consumed.Add(take)
		remaining = remaining.Sub(take)
		consumptions = append(consumptions, BatchConsumption{
			BatchID:  b.ID.String(),
			Quantity: take,
			UnitCost: b.UnitCost,
		})
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, &InsufficientInventoryError{Requested: quantity, Available: consumed}
	}

	return &CostResult{
		UnitCost:     totalCost.Div(quantity).Round(costScale),
		TotalCost:    totalCost,
		Consumptions: consumptions,
	}, nil
}

// AvailableQuantity sums the remaining quantity over a batch set
func AvailableQuantity(batches []*InventoryBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.RemainingQuantity)
	}
	return total
}

// DeductFIFO walks batches oldest first and consumes quantity, mutating the
// remaining quantity on each batch it touches. It returns the batches that
// changed. Unlike FIFOCost it does not fail on shortage; it deducts what it
// can and stops when the batches run dry.
func DeductFIFO(batches []*InventoryBatch, quantity decimal.Decimal) []*InventoryBatch {
	sorted := make([]*InventoryBatch, len(batches))
	copy(sorted, batches)
	SortBatchesFIFO(sorted)

	remaining := quantity
	var touched []*InventoryBatch
	for _, b := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if !b.HasStock() {
			continue
		}
		take := b.Deduct(remaining)
		remaining = remaining.Sub(take)
		touched = append(touched, b)
	}
	return touched
}
