package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/marlett/reservations/internal/model"
)

// Pre-planning checklist printed on the internal summary.
var recommendations = []string{
	"Definir menú y bebidas 10 días antes (considerar restricciones alimentarias).",
	"Confirmar número final de invitados 7 días antes.",
	"Programar montaje/decoración 2–3 horas antes del inicio.",
	"Prueba de sonido y verificación AV 1–2 horas antes.",
	"Asignar responsables para recepción, catering y cierre.",
	"Compartir agenda detallada con proveedores 48 horas antes.",
}

func CustomerPDFName(id string) string { return "reserva-" + id + ".pdf" }
func AdminPDFName(id string) string    { return "admin-reserva-" + id + ".pdf" }

// doc wraps gofpdf with the field layout shared by both summaries.  Core
// fonts are cp1252, so every string goes through tr.
type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDoc(title string) *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, d.tr(title))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "================================")
	pdf.Ln(10)
	return d
}

func (d *doc) section(title string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.Cell(0, 8, d.tr(title))
	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "", 11)
}

func (d *doc) field(label string, value any) {
	d.text(fmt.Sprintf("%s: %v", label, value))
}

func (d *doc) text(s string) {
	d.pdf.MultiCell(0, 6, d.tr(s), "", "L", false)
}

func (d *doc) write(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// perGuest renders "$15 x 100 = $1,500".
func perGuest(rate int64, guests int) string {
	return fmt.Sprintf("%s x %d = %s", money(rate), guests, money(rate*int64(guests)))
}

func orNA(list []string) string {
	if len(list) == 0 {
		return "N/A"
	}
	return strings.Join(list, ", ")
}

func created(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// CustomerPDF writes the reservation summary given to the customer.  The
// per-guest lines use the rates in p.
func CustomerPDF(w io.Writer, r model.Reservation, p model.PricingConfig) error {
	d := newDoc("Marlett - Detalles de Reserva")

	d.field("ID", r.ID)
	d.field("Nombre", r.Name)
	d.field("Email", r.Email)
	d.field("Teléfono", r.Phone)
	d.field("Tipo de evento", r.EventType)
	d.field("Fecha", r.Date.String())
	d.field("Hora de inicio", r.Time)
	d.field("Duración (horas)", formatHours(r.Duration))
	d.field("Invitados", r.Guests)
	d.field("Salones asignados", strings.Join(r.Rooms, ", "))

	d.section("Desglose de precios")
	b := r.PriceBreakdown
	d.field("Base", money(b.BasePrice))
	d.field("Horas", money(b.HourlyRate))
	d.field("Salones", money(b.RoomCost))
	d.field("Catering (por persona x invitados)", perGuest(p.Catering, r.Guests))
	d.field("Decoración (por persona x invitados)", perGuest(p.Decoracion, r.Guests))
	d.field("Audio/Visual (por persona x invitados)", perGuest(p.AudioVisual, r.Guests))
	d.field("Montaje especial", money(b.SpecialSetupCost))
	d.field("Total Estimado", money(r.TotalPrice))

	d.section("Selecciones")
	d.field("Catering", orNA(r.CateringSelection))
	d.field("Decoración", orNA(r.DecorationSelection))
	d.field("Audio/Visual", orNA(r.AudioVisualSelection))

	d.pdf.Ln(6)
	d.field("Estatus", r.Status)
	d.field("Creado", created(r.CreatedAt))

	return d.write(w)
}

// AdminPDF writes the internal event summary for staff.  Anonymous
// reservations show the masked contact.
func AdminPDF(w io.Writer, r model.Reservation, p model.PricingConfig) error {
	d := newDoc("Marlett - Resumen Interno de Evento (Administración)")

	d.section("Datos Generales")
	d.field("ID", r.ID)
	d.field("Cliente", r.Name)
	d.field("Contacto", r.Email+" | "+r.Phone)
	d.field("Tipo de evento", r.EventType)
	d.field("Fecha", r.Date.String())
	d.field("Hora inicio", r.Time)
	d.field("Duración (h)", formatHours(r.Duration))
	d.field("Hora fin (estimada)", r.EndTime())
	d.field("Invitados", r.Guests)
	d.field("Salones", orNA(r.Rooms))

	d.section("Estimado de Costos")
	b := r.PriceBreakdown
	d.field("Catering (por persona x invitados)", perGuest(p.Catering, r.Guests))
	d.field("Decoración (por persona x invitados)", perGuest(p.Decoracion, r.Guests))
	d.field("Audio/Visual (por persona x invitados)", perGuest(p.AudioVisual, r.Guests))
	d.field("Horas", money(b.HourlyRate))
	d.field("Salones", money(b.RoomCost))
	d.field("Montaje especial", money(b.SpecialSetupCost))
	d.field("Total estimado", money(r.TotalPrice))

	d.section("Selecciones de Servicio")
	d.field("Catering (alimentos/bebidas)", orNA(r.CateringSelection))
	d.field("Decoración", orNA(r.DecorationSelection))
	d.field("Audio/Visual", orNA(r.AudioVisualSelection))

	d.section("Recomendaciones de Pre-Planeación")
	for _, rec := range recommendations {
		d.text("- " + rec)
	}

	if len(r.Notes) > 0 {
		d.section("Notas del Evento")
		d.text(strings.Join(r.Notes, " | "))
	}

	d.pdf.Ln(6)
	d.field("Estatus", r.Status)
	d.field("Creado", created(r.CreatedAt))

	return d.write(w)
}
