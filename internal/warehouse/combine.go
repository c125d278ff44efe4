package warehouse

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/tabular"
	"ordercash/internal/util"
)

// ColumnRenameMap maps warehouse export columns onto the names the rest of
// the pipeline uses. gp_ marks warehouse-sourced figures, mp_ the marketplace
// identifier the warehouse recorded for the order.
var ColumnRenameMap = map[string]string{
	"ID_OBFUSCATED":                      "gp_order_id_obfuscated",
	"ORDER_ID":                           "gp_order_id",
	"PARTNER_CUSTOMER_ORDER_NUMBER":      "mp_order_id",
	"OPS_DAY":                            "gp_date",
	"ORDER_COMPLETED":                    "order_completed",
	"MFC_NAME":                           "mfc_name",
	"BLENDED_VAT_RATE":                   "blended_vat_rate",
	"ALC_PRODUCTS_TOTAL_PRICE_LOCAL":     "alcohol_products_total",
	"NON_ALC_PRODUCTS_TOTAL_PRICE_LOCAL": "non_alcohol_products_total",
	"TOTAL_INC_TIPS_LOCAL":               "total_excl_bag_fee",
	"BAG_FEE":                            "bag_fee",
	"TOTAL":                              "total_incl_bag_fee",
	"ORDER_VENDOR":                       "order_vendor",
	"ID":                                 "id",
	"DBT_UPDATED_AT":                     "dbt_updated_at",
	"FAM_EXCLUSIVE_SAVINGS_LOCAL":        "fam_exclusive_savings_local",
	"PRODUCTS_TOTAL_PRICE_LOCAL":         "products_total_price_local",
	"COUPON_DISCOUNT_LOCAL":              "coupon_discount_local",
	"VENDOR_COUPON_DISCOUNT_LOCAL":       "vendor_coupon_discount_local",
	"GROWTH_COUPON_DISCOUNT_LOCAL":       "growth_coupon_discount_local",
	"ORDER_TOTAL_DISCOUNT_LOCAL":         "order_total_discount_local",
	"DELIVERY_FEE_LOCAL":                 "delivery_fee_local",
	"PRIORITY_FEE_LOCAL":                 "priority_fee_local",
	"SMALL_ORDER_FEE_LOCAL":              "small_order_fee_local",
	"SUBTOTAL_EXC_TIPS_LOCAL":            "subtotal_exc_tips_local",
	"TIPS_LOCAL":                         "tips_local",
}

// Combine merges every warehouse export CSV in the configured directory into
// one renamed, cleaned file at the fixed output name. Unreadable files are
// logged and skipped so one broken export cannot block the batch. Returns the
// combined file path.
func Combine(cfg config.Config, log zerolog.Logger) (string, error) {
	matches, err := filepath.Glob(filepath.Join(cfg.WarehouseDir, "*.csv"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", &internal.NotFoundError{
			What: "warehouse export files",
			Hint: "no *.csv under " + cfg.WarehouseDir,
		}
	}

	combined := tabular.New()
	loaded := 0
	for _, path := range matches {
		t, err := tabular.Read(path)
		if err != nil {
			log.Error().Err(err).Str("file", filepath.Base(path)).Msg("warehouse export unreadable, skipped")
			continue
		}
		combined.Append(t)
		loaded++
	}
	if loaded == 0 {
		return "", &internal.NotFoundError{
			What: "readable warehouse export files",
			Hint: "all csv files under " + cfg.WarehouseDir + " failed to read",
		}
	}

	combined.Rename(ColumnRenameMap)
	combined.EnsureColumn("mp_order_id")
	combined.Transform("mp_order_id", util.CleanOrderID)

	// Newest warehouse orders first.
	combined.SortBy(func(a, b map[string]string) bool {
		return a["gp_order_id"] > b["gp_order_id"]
	})

	path := cfg.WarehouseCombinedPath()
	if err := combined.Write(path); err != nil {
		return "", err
	}
	log.Info().Int("files", loaded).Int("rows", len(combined.Rows)).Str("path", path).Msg("warehouse exports combined")
	return path, nil
}
