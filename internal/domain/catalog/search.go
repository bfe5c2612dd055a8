package catalog

import "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"

// HotelSearchConfig declares the filters, search fields and sort keys of the
// hotel listing.
var HotelSearchConfig = query.EntityConfig{
	Name:         "hotels",
	SearchFields: []string{"name", "description", "city"},
	Filters: map[string]query.FieldRule{
		"city":     {Field: "city", Op: query.OpEq},
		"country":  {Field: "country", Op: query.OpEq},
		"stars":    {Field: "starRating", Op: query.OpIn, Kind: query.Number},
		"minPrice": {Field: "pricePerNight", Op: query.OpGte, Kind: query.Number},
		"maxPrice": {Field: "pricePerNight", Op: query.OpLte, Kind: query.Number},
		"isActive": {Field: "isActive", Op: query.OpEq, Kind: query.Bool},
	},
	SortFields:  []string{"name", "pricePerNight", "starRating", "createdAt"},
	DefaultSort: query.Sort{Field: "createdAt", Order: query.Desc},
}

// VehicleSearchConfig is the vehicle listing counterpart of HotelSearchConfig.
var VehicleSearchConfig = query.EntityConfig{
	Name:         "vehicles",
	SearchFields: []string{"make", "model", "type"},
	Filters: map[string]query.FieldRule{
		"type":        {Field: "type", Op: query.OpEq},
		"city":        {Field: "city", Op: query.OpEq},
		"minSeats":    {Field: "seats", Op: query.OpGte, Kind: query.Number},
		"minPrice":    {Field: "pricePerDay", Op: query.OpGte, Kind: query.Number},
		"maxPrice":    {Field: "pricePerDay", Op: query.OpLte, Kind: query.Number},
		"isAvailable": {Field: "isAvailable", Op: query.OpEq, Kind: query.Bool},
	},
	SortFields:  []string{"make", "pricePerDay", "year", "seats", "createdAt"},
	DefaultSort: query.Sort{Field: "createdAt", Order: query.Desc},
}

// PackageSearchConfig drives the package listing. destination matches as a
// case-insensitive substring.
var PackageSearchConfig = query.EntityConfig{
	Name:         "packages",
	SearchFields: []string{"name", "description", "destination"},
	Filters: map[string]query.FieldRule{
		"destination": {Field: "destination", Op: query.OpContains},
		"minDuration": {Field: "durationDays", Op: query.OpGte, Kind: query.Number},
		"maxDuration": {Field: "durationDays", Op: query.OpLte, Kind: query.Number},
		"minPrice":    {Field: "price", Op: query.OpGte, Kind: query.Number},
		"maxPrice":    {Field: "price", Op: query.OpLte, Kind: query.Number},
		"isActive":    {Field: "isActive", Op: query.OpEq, Kind: query.Bool},
	},
	SortFields:  []string{"name", "price", "durationDays", "createdAt"},
	DefaultSort: query.Sort{Field: "createdAt", Order: query.Desc},
}
