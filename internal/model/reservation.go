package model

import (
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a reservation.  New bookings start as
// pending, an administrator confirms or cancels them, the status sweeper
// moves confirmed events to in-progress on the event day and an
// administrator finally marks them completed.
type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusPending    Status = "pending"
	StatusCancelled  Status = "cancelled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusConfirmed, StatusPending, StatusCancelled, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Text returns the customer facing label of the status.
func (s Status) Text() string {
	switch s {
	case StatusConfirmed:
		return "Confirmado"
	case StatusPending:
		return "Pendiente"
	case StatusCancelled:
		return "Cancelado"
	case StatusInProgress:
		return "En Proceso"
	case StatusCompleted:
		return "Finalizado"
	default:
		return "Desconocido"
	}
}

// Variant distinguishes bookings made through the regular events flow from
// bookings made through the Marlett de Despechos flow.
type Variant string

const (
	VariantRegular   Variant = "regular"
	VariantDespechos Variant = "despechos"
)

// PriceBreakdown is the per-category cost of a reservation.  Every field is
// an amount in whole currency units; HourlyRate holds the hourly cost
// (rate multiplied by duration), not the rate itself.
type PriceBreakdown struct {
	BasePrice        int64 `json:"basePrice"`
	HourlyRate       int64 `json:"hourlyRate"`
	RoomCost         int64 `json:"roomCost"`
	CateringCost     int64 `json:"cateringCost"`
	DecorationCost   int64 `json:"decorationCost"`
	AudioVisualCost  int64 `json:"audioVisualCost"`
	SpecialSetupCost int64 `json:"specialSetupCost"`
	AdditionalCosts  int64 `json:"additionalCosts,omitempty"`
}

// Total sums every category of the breakdown.
func (p PriceBreakdown) Total() int64 {
	return p.BasePrice + p.HourlyRate + p.RoomCost + p.CateringCost +
		p.DecorationCost + p.AudioVisualCost + p.SpecialSetupCost + p.AdditionalCosts
}

// Reservation is a booking for one event occurrence.  The JSON shape is the
// one kept in the local store under the marlett-reservations key; the remote
// store keeps the same record in snake_case columns.
//
// Fields:
//  ID                   – opaque identifier (uuid, or despechos_<uuid>).
//  OwnerID              – anonymous client id of the customer who booked.
//  IsAnonymous          – when true Name/Email/Phone are masked and the
//                         real values live in RealName/RealEmail/RealPhone.
//  Date, Time, Duration – event day, start time (HH:MM) and hours.
//  EventType            – display name of the booked event type.
//  EventTypeID          – catalog id used to re-price on edits.
//  Rooms                – room ids from the room catalog.
//  TotalPrice           – PriceBreakdown.Total() at booking time.
//  Notes                – free-text notes from the customer or staff.
//  Avatar               – initials shown in admin listings.
type Reservation struct {
	ID                   string         `json:"id"`
	OwnerID              string         `json:"ownerId,omitempty"`
	IsAnonymous          bool           `json:"isAnonymous"`
	Name                 string         `json:"name"`
	Email                string         `json:"email"`
	Phone                string         `json:"phone"`
	RealName             string         `json:"realName,omitempty"`
	RealEmail            string         `json:"realEmail,omitempty"`
	RealPhone            string         `json:"realPhone,omitempty"`
	Date                 Date           `json:"date"`
	Time                 string         `json:"time"`
	Duration             float64        `json:"duration"`
	EventType            string         `json:"eventType"`
	EventTypeID          string         `json:"eventTypeId,omitempty"`
	Variant              Variant        `json:"variant"`
	Status               Status         `json:"status"`
	Guests               int            `json:"guests"`
	Rooms                []string       `json:"rooms"`
	TotalPrice           int64          `json:"totalPrice"`
	PriceBreakdown       PriceBreakdown `json:"priceBreakdown"`
	CateringSelection    []string       `json:"cateringSelection"`
	DecorationSelection  []string       `json:"decorationSelection"`
	AudioVisualSelection []string       `json:"audioVisualSelection"`
	Notes                []string       `json:"notes"`
	Avatar               string         `json:"avatar"`
	CreatedAt            time.Time      `json:"createdAt"`
}

// IsActive reports whether the reservation still matters on the given day:
// it is dated today or later, or it is currently running.
func (r Reservation) IsActive(today Date) bool {
	return !r.Date.Before(today) || r.Status == StatusInProgress
}

// EndTime returns the estimated HH:MM end of the event.  Times past
// midnight wrap around; an unparsable start time is returned unchanged.
func (r Reservation) EndTime() string {
	h, m, ok := parseClock(r.Time)
	if !ok {
		return r.Time
	}
	total := h*60 + m + int(r.Duration*60+0.5)
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return pad2(total/60) + ":" + pad2(total%60)
}

// ValidClock reports whether s is a 24h HH:MM time.
func ValidClock(s string) bool {
	_, _, ok := parseClock(s)
	return ok
}

func parseClock(s string) (int, int, bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
