package m_product

// Field constants for the products table.
const (
	TableName = "products"

	ColProductID        = "product_id"
	ColTenantID         = "tenant_id"
	ColName             = "name"
	ColDescription      = "description"
	ColPrice            = "price"
	ColPromotionalPrice = "promotional_price"
	ColSaleUnit         = "sale_unit"
	ColCategory         = "category"
	ColImageURL         = "image_url"
	ColAvailable        = "available"
	ColCustomizable     = "customizable"
	ColBases            = "bases"
	ColFillings         = "fillings"
	ColToppings         = "toppings"
	ColCreatedAt        = "created_at"
	ColUpdatedAt        = "updated_at"
)

// SelectColumns is the column order read by queries and scanned by ScanRow.
var SelectColumns = []string{
	ColProductID, ColTenantID, ColName, ColDescription, ColPrice, ColPromotionalPrice,
	ColSaleUnit, ColCategory, ColImageURL, ColAvailable, ColCustomizable,
	ColBases, ColFillings, ColToppings, ColCreatedAt, ColUpdatedAt,
}
