package externalapi

// WeightedItem is the resource footprint of a transaction or a whole block,
// as counted by the parser. It is transient: callers build one, hand it to
// the weight calculator, and discard it.
type WeightedItem struct {
	InputCount       uint64
	OutputCount      uint64
	KernelCount      uint64
	TotalScriptBytes uint64
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = WeightedItem{0, 0, 0, 0}

// Equal returns whether item equals to other
func (item *WeightedItem) Equal(other *WeightedItem) bool {
	if item == nil || other == nil {
		return item == other
	}

	return *item == *other
}

// Clone returns a clone of WeightedItem
func (item *WeightedItem) Clone() *WeightedItem {
	itemClone := *item
	return &itemClone
}
