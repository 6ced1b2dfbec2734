package extract

// ItemRecord is one finalized line item of an order table. Optional fields
// are nil when the row did not yield a value.
type ItemRecord struct {
	CartPartNo      string   `json:"cart_part_no"`
	CountryOfOrigin *string  `json:"country_of_origin,omitempty"`
	Unit            *string  `json:"a_unit,omitempty"`
	Quantity        *int     `json:"qty,omitempty"`
	Rate            *float64 `json:"rate_include_gst,omitempty"`
	TotalCost       *float64 `json:"total_cost,omitempty"`
	Nomenclature    string   `json:"nomenclature"`
}

// Bare reports whether the row carries nothing beyond its part number.
func (r ItemRecord) Bare() bool {
	return r.CountryOfOrigin == nil && r.Unit == nil && r.Quantity == nil &&
		r.Rate == nil && r.TotalCost == nil && r.Nomenclature == ""
}

// partialRecord accumulates one row while tokens stream in.
type partialRecord struct {
	partNumber string
	country    *string
	unit       *string
	quantity   *int
	rate       *float64
	totalCost  *float64
	words      []string
}

func (p *partialRecord) set(c Classified) {
	switch c.Kind {
	case KindCountryOfOrigin:
		v := c.Text
		p.country = &v
	case KindUnit:
		v := c.Text
		p.unit = &v
	case KindQuantity:
		v := c.Int
		p.quantity = &v
	case KindRate:
		v := c.Number
		p.rate = &v
	case KindTotalCost:
		v := c.Number
		p.totalCost = &v
	default:
		p.words = append(p.words, c.Token)
	}
}

func (p *partialRecord) finalize() ItemRecord {
	return ItemRecord{
		CartPartNo:      p.partNumber,
		CountryOfOrigin: p.country,
		Unit:            p.unit,
		Quantity:        p.quantity,
		Rate:            p.rate,
		TotalCost:       p.totalCost,
		Nomenclature:    CleanNomenclature(p.words),
	}
}
