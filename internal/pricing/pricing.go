// Package pricing computes reservation prices from the rate table and the
// event catalog.  Every function is pure; callers load the configuration.
package pricing

import (
	"math"

	"github.com/marlett/reservations/internal/model"
)

// Preview inputs used by the admin pricing screen.
const (
	PreviewGuests = 100
	PreviewHours  = 4
	PreviewRooms  = 2
)

// MaxVenueGuests is the most guests the four merged rooms can hold.
const MaxVenueGuests = 450

// Regular prices a booking of the regular events flow.  Catering, decoration
// and audio-visual are only charged when the event type offers options in
// that category.
func Regular(et model.EventType, p model.PricingConfig, guests, rooms int, hours float64) model.PriceBreakdown {
	g := int64(clamp(guests))
	out := model.PriceBreakdown{
		BasePrice:  et.BasePrice * g,
		HourlyRate: hourly(p.HourlyRate, hours),
		RoomCost:   int64(clamp(rooms)) * p.Salones,
	}
	if len(et.CateringOptions) > 0 {
		out.CateringCost = g * p.Catering
	}
	if len(et.DecorationOptions) > 0 {
		out.DecorationCost = g * p.Decoracion
	}
	if len(et.AudioVisualOptions) > 0 {
		out.AudioVisualCost = g * p.AudioVisual
	}
	if et.RequiresSpecialSetup {
		out.SpecialSetupCost = p.Setup
	}
	return out
}

// Despechos prices a visit of the despechos flow.  The cover is charged per
// guest, the add-on categories always apply and the package's additional
// costs are added once.
func Despechos(ev model.DespechosEvent, p model.PricingConfig, guests, rooms int, hours float64) model.PriceBreakdown {
	g := int64(clamp(guests))
	out := model.PriceBreakdown{
		BasePrice:       ev.CoverPrice * g,
		HourlyRate:      hourly(p.HourlyRate, hours),
		RoomCost:        int64(clamp(rooms)) * p.Salones,
		CateringCost:    g * p.Catering,
		DecorationCost:  g * p.Decoracion,
		AudioVisualCost: g * p.AudioVisual,
		AdditionalCosts: ev.AdditionalCosts,
	}
	if ev.RequiresSpecialSetup {
		out.SpecialSetupCost = p.Setup
	}
	return out
}

// Quote is a price breakdown together with its total.
type Quote struct {
	Guests    int                  `json:"guests"`
	Hours     float64              `json:"hours"`
	Rooms     int                  `json:"rooms"`
	Breakdown model.PriceBreakdown `json:"breakdown"`
	Total     int64                `json:"total"`
}

// Preview returns the admin preview for a 100 guest, 4 hour event across
// two rooms.  It ignores per-guest base prices, which depend on the event type.
func Preview(p model.PricingConfig) Quote {
	b := model.PriceBreakdown{
		HourlyRate:       hourly(p.HourlyRate, PreviewHours),
		RoomCost:         PreviewRooms * p.Salones,
		CateringCost:     PreviewGuests * p.Catering,
		DecorationCost:   PreviewGuests * p.Decoracion,
		AudioVisualCost:  PreviewGuests * p.AudioVisual,
		SpecialSetupCost: p.Setup,
	}
	return Quote{Guests: PreviewGuests, Hours: PreviewHours, Rooms: PreviewRooms, Breakdown: b, Total: b.Total()}
}

// Advice is the recommended number of merged rooms for a guest count.
type Advice struct {
	Rooms int  `json:"rooms"`
	Max   int  `json:"max"`
	OK    bool `json:"ok"`
}

// RoomsAdvice recommends how many rooms to merge for the given guest count.
// Counts above the venue capacity, or below one, are not ok.
func RoomsAdvice(guests int) Advice {
	switch {
	case guests <= 0:
		return Advice{}
	case guests <= 80:
		return Advice{Rooms: 1, Max: 80, OK: true}
	case guests <= 200:
		return Advice{Rooms: 2, Max: 200, OK: true}
	case guests <= 300:
		return Advice{Rooms: 3, Max: 300, OK: true}
	case guests <= MaxVenueGuests:
		return Advice{Rooms: 4, Max: MaxVenueGuests, OK: true}
	}
	return Advice{Rooms: 4, Max: MaxVenueGuests}
}

func hourly(rate int64, hours float64) int64 {
	if hours <= 0 || rate <= 0 {
		return 0
	}
	return int64(math.Round(float64(rate) * hours))
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
