package report

import (
	"github.com/shopspring/decimal"
)

// Group is one bucket of an Aggregate: its key, its member records in
// fetch order, and the bucket's count and monetary total.
type Group[T any] struct {
	Key     Status
	Records []T
	Count   int
	Total   decimal.Decimal
}

// Aggregate is the output of grouping: ordered groups plus totals over
// the whole input, including records that did not resolve to any group.
type Aggregate[T any] struct {
	Groups []Group[T]

	// TotalCount counts every input record, grouped or not.
	TotalCount int
	// GroupedCount counts only records that resolved to a taxonomy
	// status.
	GroupedCount int
	// GrandTotal sums the monetary field of every input record, with
	// missing values contributing zero.
	GrandTotal decimal.Decimal
}

// GroupByStatus buckets records by their status, in taxonomy order.
// Records whose status does not resolve after normalization are dropped
// from the groups but still counted in TotalCount and GrandTotal.
// Missing monetary values contribute zero.
func GroupByStatus[T any](tax Taxonomy, records []T, statusOf func(T) string, amountOf func(T) *decimal.Decimal) Aggregate[T] {
	byStatus := make(map[Status]int, len(tax))
	groups := make([]Group[T], len(tax))
	for i, s := range tax {
		byStatus[s] = i
		groups[i] = Group[T]{Key: s, Total: decimal.Zero}
	}

	agg := Aggregate[T]{GrandTotal: decimal.Zero}
	for _, rec := range records {
		agg.TotalCount++
		amount := decimal.Zero
		if v := amountOf(rec); v != nil {
			amount = *v
		}
		agg.GrandTotal = agg.GrandTotal.Add(amount)

		status, ok := tax.Resolve(statusOf(rec))
		if !ok {
			continue
		}
		i := byStatus[status]
		groups[i].Records = append(groups[i].Records, rec)
		groups[i].Count++
		groups[i].Total = groups[i].Total.Add(amount)
		agg.GroupedCount++
	}

	agg.Groups = groups
	return agg
}

// SumAmounts totals a record list's monetary field, nil meaning zero.
func SumAmounts[T any](records []T, amountOf func(T) *decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if v := amountOf(rec); v != nil {
			total = total.Add(*v)
		}
	}
	return total
}
