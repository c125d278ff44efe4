package warehouse

import (
	"ordercash/internal/util"
)

// Index holds warehouse records keyed for the reconciliation join. The
// marketplace order id is the join key; records without one are still kept
// in order for period scans.
type Index struct {
	ByMPOrderID map[string]Record
	All         []Record
}

func BuildIndex(records []Record) *Index {
	idx := &Index{
		ByMPOrderID: map[string]Record{},
		All:         records,
	}

	for _, r := range records {
		key := util.CleanOrderID(r["mp_order_id"])
		if key == "" {
			continue
		}
		// First occurrence wins; exports sort newest first, duplicates are
		// stale re-exports of the same order.
		if _, ok := idx.ByMPOrderID[key]; !ok {
			idx.ByMPOrderID[key] = r
		}
	}

	return idx
}

// Lookup finds the warehouse record for a marketplace order id, tolerant of
// raw identifier formatting.
func (idx *Index) Lookup(mpOrderID string) (Record, bool) {
	r, ok := idx.ByMPOrderID[util.CleanOrderID(mpOrderID)]
	return r, ok
}
