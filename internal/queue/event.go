// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by ReservationEvent.Type.
const (
	EventCreated       = "reservation.created"
	EventUpdated       = "reservation.updated"
	EventStatusChanged = "reservation.status_changed"
	EventDeleted       = "reservation.deleted"
)

// ReservationEvent is published after every reservation write.  It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the reservation store.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	EventType     string `json:"event_type"`
	Date          string `json:"date"`
	Guests        int    `json:"guests"`
	TotalPrice    int64  `json:"total_price"`
	OccurredAt    string `json:"occurred_at"`
}
