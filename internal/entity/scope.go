package entity

// RequestFilter is what a caller asks for, before authorization.
type RequestFilter struct {
	Shop        string
	Salesperson string
	Period      TimeRange
}

// ScopeFilter is the effective filter a caller is authorized to apply.
// A denied scope matches nothing.
type ScopeFilter struct {
	Shop        *string
	Salesperson *string
	Period      TimeRange
	Denied      bool
}

// Restricted reports whether the scope narrows below company-wide data.
func (s ScopeFilter) Restricted() bool {
	return s.Shop != nil || s.Salesperson != nil
}

// SalesFilter converts the scope to a data accessor predicate.
func (s ScopeFilter) SalesFilter() SalesFilter {
	return SalesFilter{
		ShopName:    s.Shop,
		Salesperson: s.Salesperson,
		Period:      s.Period,
	}
}

// Global returns the same window without shop or salesperson restriction.
func (s ScopeFilter) Global() ScopeFilter {
	return ScopeFilter{Period: s.Period}
}
