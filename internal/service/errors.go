package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist in
	// either store.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a customer asks for a reservation booked
	// under another client id.
	ErrForbidden = errors.New("forbidden")
	// ErrCapacity is matched by every *CapacityError.
	ErrCapacity = errors.New("capacity exceeded")
)

// ValidationError reports a rejected input field.  Message is shown to the
// customer as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, msg string, args ...any) error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &ValidationError{Field: field, Message: msg}
}

// CapacityError reports a booking rejected by the venue capacity limits.
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string { return e.Message }
func (e *CapacityError) Unwrap() error { return ErrCapacity }

// Customer facing messages.
const (
	msgRequired           = "Por favor completa todos los campos requeridos"
	msgContactRequired    = `Por favor completa la información personal o selecciona "Evento Anónimo"`
	msgNameInappropriate  = "Contenido no permitido en el nombre. Usa un lenguaje apropiado."
	msgEventInappropriate = "Tipo de evento no permitido. Selecciona un evento apropiado."
	msgEventUnknown       = "Selecciona un tipo de evento válido."
	msgGuestsRange        = "El número de invitados debe estar entre %d y %d."
	msgHoursRange         = "La duración debe estar entre %s y %s horas."
	msgTimeInvalid        = "La hora debe tener el formato HH:MM."
	msgDatePast           = "La fecha del evento no puede ser anterior a hoy."
	msgRoomUnknown        = "Salón no disponible: %s"
	msgStatusInvalid      = "Estatus no válido: %s"
	msgGuestCeiling       = "El número de invitados excede la capacidad máxima de %d por evento."
	msgDayFull            = "No hay disponibilidad para la fecha seleccionada: máximo %d eventos por día."

	msgCustomEmpty     = "Por favor ingresa un tipo de evento."
	msgCustomProfanity = "Contenido no permitido. Usa un lenguaje apropiado para eventos familiares."
	msgCustomInvalid   = "Ingresa un evento apropiado (ej: Cumpleaños, Boda, Graduación, Reunión)."
	msgCustomDuplicate = "Este tipo de evento ya existe. Por favor elige otro nombre."
)
