package usecase

import "github.com/fekuna/omnipos-inventory-service/internal/model"

// itemDiff partitions line items by value equality (product and quantity).
// Changing only a quantity therefore shows up as one added and one removed item.
type itemDiff struct {
	keptOld []model.OrderItem // old items also present in the update, in old order
	keptNew []model.OrderItem // updated items also present before, in new order
	added   []model.OrderItem
	removed []model.OrderItem
}

func containsItem(items []model.OrderItem, item model.OrderItem) bool {
	for _, it := range items {
		if it.Equal(item) {
			return true
		}
	}
	return false
}

func diffItems(old, updated []model.OrderItem) itemDiff {
	var d itemDiff
	for _, item := range updated {
		if containsItem(old, item) {
			d.keptNew = append(d.keptNew, item)
		} else {
			d.added = append(d.added, item)
		}
	}
	for _, item := range old {
		if containsItem(d.keptNew, item) {
			d.keptOld = append(d.keptOld, item)
		}
		if !containsItem(updated, item) {
			d.removed = append(d.removed, item)
		}
	}
	return d
}

// netChange sums new minus old quantity per product over the kept items.
// Products whose kept quantities cancel out are omitted.
func netChange(d itemDiff) ([]string, map[string]int) {
	var products []string
	net := map[string]int{}
	track := func(productID string, delta int) {
		if _, ok := net[productID]; !ok {
			products = append(products, productID)
		}
		net[productID] += delta
	}
	for _, item := range d.keptOld {
		track(item.ProductID, -item.Quantity)
	}
	for _, item := range d.keptNew {
		track(item.ProductID, item.Quantity)
	}

	changed := products[:0]
	for _, id := range products {
		if net[id] != 0 {
			changed = append(changed, id)
		}
	}
	return changed, net
}

// quantities sums item quantities per product, in first-seen order.
func quantities(items []model.OrderItem) ([]string, map[string]int) {
	var products []string
	total := map[string]int{}
	for _, item := range items {
		if _, ok := total[item.ProductID]; !ok {
			products = append(products, item.ProductID)
		}
		total[item.ProductID] += item.Quantity
	}
	return products, total
}
