package booking

import "github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"

// Logical field names shared by the search config and the storage adapters.
const (
	FieldID            = "id"
	FieldBookingNumber = "bookingNumber"
	FieldUserID        = "userId"
	FieldHotelID       = "hotelId"
	FieldVehicleID     = "vehicleId"
	FieldPackageID     = "packageId"
	FieldStatus        = "status"
	FieldPaymentStatus = "paymentStatus"
	FieldStartDate     = "startDate"
	FieldEndDate       = "endDate"
	FieldTotalPrice    = "totalPrice"
	FieldBookingDate   = "bookingDate"
	FieldCreatedAt     = "createdAt"
)

// SearchConfig declares the list parameters accepted for bookings.
var SearchConfig = query.EntityConfig{
	Name:         "bookings",
	SearchFields: []string{FieldBookingNumber, FieldStatus, FieldPaymentStatus},
	Filters: map[string]query.FieldRule{
		"status":        {Field: FieldStatus, Op: query.OpEq},
		"paymentStatus": {Field: FieldPaymentStatus, Op: query.OpEq},
		"userId":        {Field: FieldUserID, Op: query.OpEq, Kind: query.UUID},
		"hotelId":       {Field: FieldHotelID, Op: query.OpEq, Kind: query.UUID},
		"vehicleId":     {Field: FieldVehicleID, Op: query.OpEq, Kind: query.UUID},
		"packageId":     {Field: FieldPackageID, Op: query.OpEq, Kind: query.UUID},
		"startFrom":     {Field: FieldStartDate, Op: query.OpGte, Kind: query.Time},
		"startTo":       {Field: FieldStartDate, Op: query.OpLte, Kind: query.Time},
		"endFrom":       {Field: FieldEndDate, Op: query.OpGte, Kind: query.Time},
		"endTo":         {Field: FieldEndDate, Op: query.OpLte, Kind: query.Time},
		"minPrice":      {Field: FieldTotalPrice, Op: query.OpGte, Kind: query.Number},
		"maxPrice":      {Field: FieldTotalPrice, Op: query.OpLte, Kind: query.Number},
	},
	SortFields:  []string{FieldCreatedAt, FieldStartDate, FieldEndDate, FieldTotalPrice, FieldBookingDate, FieldStatus},
	DefaultSort: query.Sort{Field: FieldCreatedAt, Order: query.Desc},
}
