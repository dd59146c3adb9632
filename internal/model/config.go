package model

// PricingConfig is the admin-editable rate table.  Salones is the flat fee
// per room, Setup the one-time special setup fee, HourlyRate the rate per
// event hour; Catering, Decoracion and AudioVisual are charged per guest.
type PricingConfig struct {
	Salones     int64 `json:"salones" validate:"min=0"`
	Catering    int64 `json:"catering" validate:"min=0"`
	Decoracion  int64 `json:"decoracion" validate:"min=0"`
	AudioVisual int64 `json:"audioVisual" validate:"min=0"`
	Setup       int64 `json:"setup" validate:"min=0"`
	HourlyRate  int64 `json:"hourlyRate" validate:"min=0"`
}

// DefaultPricing returns the rate table used until an administrator edits it.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		Salones:     900,
		Catering:    15,
		Decoracion:  8,
		AudioVisual: 5,
		Setup:       200,
		HourlyRate:  3000,
	}
}

// CapacityConfig holds venue-wide booking limits.
//
// Fields:
//  MaxGuestsPerEvent – guest ceiling for a single booking.
//  MaxEventsPerDay   – non-cancelled bookings allowed on one date.
//  MaxGuestsPerHour  – informational arrival rate shown to staff.
//  AllowOverbooking  – raises the guest ceiling by OverbookingLimit and
//                      lifts the per-day limit.
//  OverbookingLimit  – extra guests accepted when overbooking.
type CapacityConfig struct {
	MaxGuestsPerEvent int  `json:"maxGuestsPerEvent" validate:"min=1"`
	MaxEventsPerDay   int  `json:"maxEventsPerDay" validate:"min=1"`
	MaxGuestsPerHour  int  `json:"maxGuestsPerHour" validate:"min=0"`
	AllowOverbooking  bool `json:"allowOverbooking"`
	OverbookingLimit  int  `json:"overbookingLimit" validate:"min=0"`
}

// DefaultCapacity returns the limits used until an administrator edits them.
func DefaultCapacity() CapacityConfig {
	return CapacityConfig{
		MaxGuestsPerEvent: 450,
		MaxEventsPerDay:   3,
		MaxGuestsPerHour:  150,
		AllowOverbooking:  false,
		OverbookingLimit:  50,
	}
}

// GuestCeiling is the largest guest count a single booking may request.
func (c CapacityConfig) GuestCeiling() int {
	if c.AllowOverbooking {
		return c.MaxGuestsPerEvent + c.OverbookingLimit
	}
	return c.MaxGuestsPerEvent
}
