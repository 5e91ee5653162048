package sync

// Normalizer reduces raw upstream records to canonical form. It is
// pure: no I/O, no clock, no tenant state. The only fatal defect in a
// record is a missing external id; every other field degrades to its
// zero value.
type Normalizer struct{}

// NewNormalizer creates a normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeCustomer reduces a raw customer payload
func (n *Normalizer) NormalizeCustomer(raw RawRecord) (CanonicalCustomer, error) {
	externalID := raw.StringField("id")
	if externalID == "" {
		return CanonicalCustomer{}, &NormalizationError{Kind: KindCustomers, Reason: "missing id"}
	}
	c := CanonicalCustomer{
		ExternalID: externalID,
		Email:      raw.StringField("email"),
		FirstName:  raw.StringField("first_name"),
		LastName:   raw.StringField("last_name"),
		Phone:      raw.StringField("phone"),
	}
	if addr := raw.MapField("default_address"); addr != nil {
		c.City = addr.StringField("city")
		c.Country = addr.StringField("country")
	}
	return c, nil
}

// NormalizeProduct reduces a raw product payload. Price, SKU and
// inventory come from the first variant when present.
func (n *Normalizer) NormalizeProduct(raw RawRecord) (CanonicalProduct, error) {
	externalID := raw.StringField("id")
	if externalID == "" {
		return CanonicalProduct{}, &NormalizationError{Kind: KindProducts, Reason: "missing id"}
	}
	p := CanonicalProduct{
		ExternalID:  externalID,
		Title:       raw.StringField("title"),
		Vendor:      raw.StringField("vendor"),
		ProductType: raw.StringField("product_type"),
		Status:      raw.StringField("status"),
	}
	if variants := raw.SliceField("variants"); len(variants) > 0 {
		v := variants[0]
		p.SKU = v.StringField("sku")
		p.Taxable = v.BoolField("taxable")
		p.Price = v.DecimalField("price")
		p.InventoryQuantity = v.IntField("inventory_quantity")
	}
	return p, nil
}

// NormalizeOrder reduces a raw order payload. The customer reference
// stays a bare external id; line items missing their own id are kept
// with an empty external id rather than dropped.
func (n *Normalizer) NormalizeOrder(raw RawRecord) (CanonicalOrder, error) {
	externalID := raw.StringField("id")
	if externalID == "" {
		return CanonicalOrder{}, &NormalizationError{Kind: KindOrders, Reason: "missing id"}
	}
	o := CanonicalOrder{
		ExternalID:        externalID,
		Number:            raw.IntField("order_number"),
		Name:              raw.StringField("name"),
		Email:             raw.StringField("email"),
		FinancialStatus:   raw.StringField("financial_status"),
		FulfillmentStatus: raw.StringField("fulfillment_status"),
		Currency:          raw.StringField("currency"),
		TotalPrice:        raw.DecimalField("total_price"),
		SubtotalPrice:     raw.DecimalField("subtotal_price"),
		TotalTax:          raw.DecimalField("total_tax"),
		ProcessedAt:       raw.TimeField("processed_at"),
	}
	if cust := raw.MapField("customer"); cust != nil {
		o.CustomerExternalID = cust.StringField("id")
	}
	for _, item := range raw.SliceField("line_items") {
		o.Lines = append(o.Lines, CanonicalOrderLine{
			ExternalID:        item.StringField("id"),
			ProductExternalID: item.StringField("product_id"),
			Title:             item.StringField("title"),
			SKU:               item.StringField("sku"),
			Quantity:          item.IntField("quantity"),
			UnitPrice:         item.DecimalField("price"),
		})
	}
	return o, nil
}
