package client

import "net/url"

// Filters is the browse screen's narrowing criteria. Values mirror the form
// state as strings; an empty string means unconstrained and is omitted from
// the query entirely rather than sent as an empty parameter.
type Filters struct {
	Search           string
	MinPrice         string
	MaxPrice         string
	Neighborhood     string
	ListingType      string
	Status           string
	MinRooms         string
	HasGumdropGarden string
}

func (f Filters) Values() url.Values {
	values := url.Values{}
	add := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	add("search", f.Search)
	add("min_price", f.MinPrice)
	add("max_price", f.MaxPrice)
	add("neighborhood", f.Neighborhood)
	add("listing_type", f.ListingType)
	add("status", f.Status)
	add("min_rooms", f.MinRooms)
	add("has_gumdrop_garden", f.HasGumdropGarden)
	return values
}

// Encode renders the canonical query string: only set filters, keys in
// url.Values order.
func (f Filters) Encode() string {
	return f.Values().Encode()
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return len(f.Values()) == 0
}
