package warehouse

import (
	"time"

	"github.com/shopspring/decimal"

	"ordercash/internal/tabular"
	"ordercash/internal/util"
)

// Record is one combined warehouse row. Values stay as exported strings;
// accessors parse on demand so formatting quirks surface where they matter.
type Record map[string]string

func (r Record) MPOrderID() string { return util.CleanOrderID(r["mp_order_id"]) }

func (r Record) GPOrderID() string { return r["gp_order_id"] }

func (r Record) GPDate() (time.Time, bool) {
	d, err := util.ParseISODate(r["gp_date"])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Completed reports whether the order actually went out. Warehouse exports
// flag this as 1/0, some older ones as true/false.
func (r Record) Completed() bool {
	switch r["order_completed"] {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}

// Total is the warehouse order value including the bag fee, the figure the
// marketplace settles against.
func (r Record) Total() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(r["total_incl_bag_fee"])
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Load reads the combined warehouse file into records.
func Load(path string) ([]Record, []string, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return nil, nil, err
	}
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, Record(row))
	}
	return records, t.Headers, nil
}
