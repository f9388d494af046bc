package models

// DefaultRadiusMiles is the radius applied before the user picks one.
const DefaultRadiusMiles = 5.0

// Filter narrows the visible stations. A false amenity flag means the
// amenity is not required, not that it must be absent.
type Filter struct {
	Radius              float64 `json:"radius"`
	IsOpen24Hours       bool    `json:"isOpen24Hours"`
	HasConvenienceStore bool    `json:"hasConvenienceStore"`
	HasHotFood          bool    `json:"hasHotFood"`
	AcceptsBpFuelCards  bool    `json:"acceptsBpFuelCards"`
}

func DefaultFilter() Filter {
	return Filter{Radius: DefaultRadiusMiles}
}

func (f Filter) WithRadius(radius float64) Filter {
	f.Radius = radius
	return f
}

func (f Filter) WithOpen24Hours(v bool) Filter {
	f.IsOpen24Hours = v
	return f
}

func (f Filter) WithConvenienceStore(v bool) Filter {
	f.HasConvenienceStore = v
	return f
}

func (f Filter) WithHotFood(v bool) Filter {
	f.HasHotFood = v
	return f
}

func (f Filter) WithBpFuelCards(v bool) Filter {
	f.AcceptsBpFuelCards = v
	return f
}
