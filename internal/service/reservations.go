package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/pricing"
	"github.com/marlett/reservations/internal/profanity"
	"github.com/marlett/reservations/internal/queue"
	"github.com/marlett/reservations/internal/repository"
	"github.com/marlett/reservations/internal/store"
	"github.com/marlett/reservations/internal/utils"
)

// Masked contact shown for anonymous bookings.
const (
	anonymousName   = "Evento Anónimo"
	anonymousEmail  = "anonimo@marlett.com"
	anonymousPhone  = "Privado"
	anonymousAvatar = "AN"
)

// RemoteReservations is the MySQL reservation store.
type RemoteReservations interface {
	List(ctx context.Context) ([]model.Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Reservation, error)
	Get(ctx context.Context, id string) (model.Reservation, error)
	Insert(ctx context.Context, r model.Reservation) error
	Update(ctx context.Context, r model.Reservation) error
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	Delete(ctx context.Context, id string) error
	DeleteBefore(ctx context.Context, day model.Date) (int, error)
	CountOnDate(ctx context.Context, day model.Date, excludeID string) (int, error)
	MarkInProgress(ctx context.Context, day model.Date) (int, error)
}

// LocalReservations is the local reservation copy.
type LocalReservations interface {
	List(ctx context.Context) ([]model.Reservation, error)
	Get(ctx context.Context, id string) (model.Reservation, error)
	Insert(ctx context.Context, r model.Reservation) error
	Update(ctx context.Context, r model.Reservation) error
	Delete(ctx context.Context, id string) error
	DeleteBefore(ctx context.Context, day model.Date) (int, error)
	Merge(ctx context.Context, remote []model.Reservation) ([]model.Reservation, error)
}

// EventPublisher delivers reservation events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Reservations implements booking, listing and administration of
// reservations on top of the remote store with a local fallback copy.
type Reservations struct {
	log      *slog.Logger
	remote   RemoteReservations
	local    LocalReservations
	settings *Settings
	events   EventPublisher
	metrics  *metrics.Metrics
	loc      *time.Location
	now      func() time.Time

	// dayMu serializes capacity checks with the writes they guard, per date.
	dayMu sync.Mutex
	days  map[string]*sync.Mutex
}

// NewReservations builds the service.  remote and events may be nil.
func NewReservations(log *slog.Logger, remote RemoteReservations, local LocalReservations,
	settings *Settings, events EventPublisher, m *metrics.Metrics, loc *time.Location) *Reservations {
	if loc == nil {
		loc = time.UTC
	}
	return &Reservations{
		log:      log,
		remote:   remote,
		local:    local,
		settings: settings,
		events:   events,
		metrics:  m,
		loc:      loc,
		now:      time.Now,
		days:     map[string]*sync.Mutex{},
	}
}

// lockDay holds the booking lock of day until the returned func is called.
func (s *Reservations) lockDay(day model.Date) func() {
	key := day.String()
	s.dayMu.Lock()
	mu, ok := s.days[key]
	if !ok {
		mu = &sync.Mutex{}
		s.days[key] = mu
	}
	s.dayMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Today is the current day in the venue's time zone.
func (s *Reservations) Today() model.Date { return model.NewDate(s.now().In(s.loc)) }

// BookingInput is a booking submission of either flow.
type BookingInput struct {
	OwnerID     string
	EventTypeID string
	Anonymous   bool
	Name        string
	Email       string
	Phone       string
	Date        model.Date
	Time        string
	Guests      int
	Duration    float64
	Rooms       []string
	Notes       []string
}

// catalogEntry is the part of an event type or despechos package that
// booking validation needs.
type catalogEntry struct {
	name               string
	active             bool
	minCap, maxCap     int
	minHours, maxHours float64
}

// CreateRegular books an event of the regular catalog.  The reservation
// starts pending with the first two options of each add-on category.
func (s *Reservations) CreateRegular(ctx context.Context, in BookingInput) (model.Reservation, error) {
	const op = "service.Reservations.CreateRegular"

	if err := s.validateBasics(in); err != nil {
		return model.Reservation{}, err
	}
	et, err := s.settings.EventType(ctx, in.EventTypeID)
	if errors.Is(err, ErrNotFound) {
		return model.Reservation{}, invalid("eventTypeId", msgEventUnknown)
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}
	entry := catalogEntry{et.Name, et.IsActive, et.MinCapacity, et.MaxCapacity, et.MinHours, et.MaxHours}
	unlock := s.lockDay(in.Date)
	defer unlock()
	rooms, err := s.checkBooking(ctx, in, entry)
	if err != nil {
		return model.Reservation{}, err
	}
	p, err := s.settings.Pricing(ctx)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	res := s.newReservation(in, rooms)
	res.ID = uuid.NewString()
	res.Variant = model.VariantRegular
	res.EventType = et.Name
	res.EventTypeID = et.ID
	res.PriceBreakdown = pricing.Regular(et, p, in.Guests, len(rooms), in.Duration)
	res.TotalPrice = res.PriceBreakdown.Total()
	res.CateringSelection = firstN(et.CateringOptions, 2)
	res.DecorationSelection = firstN(et.DecorationOptions, 2)
	res.AudioVisualSelection = firstN(et.AudioVisualOptions, 2)

	return s.insert(ctx, op, res)
}

// CreateDespechos books a visit package of the despechos catalog.  Every
// add-on option of the package is selected and blank notes are dropped.
func (s *Reservations) CreateDespechos(ctx context.Context, in BookingInput) (model.Reservation, error) {
	const op = "service.Reservations.CreateDespechos"

	if err := s.validateBasics(in); err != nil {
		return model.Reservation{}, err
	}
	ev, err := s.settings.DespechosEvent(ctx, in.EventTypeID)
	if errors.Is(err, ErrNotFound) {
		return model.Reservation{}, invalid("eventTypeId", msgEventUnknown)
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}
	if !in.Anonymous {
		in.Name = utils.FormatPersonName(in.Name)
	}
	entry := catalogEntry{ev.Name, ev.IsActive, ev.MinCapacity, ev.MaxCapacity, ev.MinHours, ev.MaxHours}
	unlock := s.lockDay(in.Date)
	defer unlock()
	rooms, err := s.checkBooking(ctx, in, entry)
	if err != nil {
		return model.Reservation{}, err
	}
	p, err := s.settings.Pricing(ctx)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	res := s.newReservation(in, rooms)
	res.ID = "despechos_" + uuid.NewString()
	res.Variant = model.VariantDespechos
	res.EventType = ev.Name
	res.EventTypeID = ev.ID
	res.PriceBreakdown = pricing.Despechos(ev, p, in.Guests, len(rooms), in.Duration)
	res.TotalPrice = res.PriceBreakdown.Total()
	res.CateringSelection = nonNilCopy(ev.CateringOptions)
	res.DecorationSelection = nonNilCopy(ev.DecorationOptions)
	res.AudioVisualSelection = nonNilCopy(ev.AudioVisualOptions)
	res.Notes = cleanNotes(in.Notes)

	return s.insert(ctx, op, res)
}

func (s *Reservations) validateBasics(in BookingInput) error {
	switch {
	case strings.TrimSpace(in.EventTypeID) == "":
		return invalid("eventTypeId", msgRequired)
	case in.Date.IsZero():
		return invalid("date", msgRequired)
	case strings.TrimSpace(in.Time) == "":
		return invalid("time", msgRequired)
	case in.Guests <= 0:
		return invalid("guests", msgRequired)
	case in.Duration <= 0:
		return invalid("duration", msgRequired)
	}
	if !model.ValidClock(in.Time) {
		return invalid("time", msgTimeInvalid)
	}
	if in.Date.Before(s.Today()) {
		return invalid("date", msgDatePast)
	}
	if !in.Anonymous {
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" {
			return invalid("name", msgContactRequired)
		}
		if profanity.ContainsInappropriate(in.Name) {
			return invalid("name", msgNameInappropriate)
		}
	}
	return nil
}

// checkBooking applies the catalog bounds and capacity limits and resolves
// the rooms to assign.
func (s *Reservations) checkBooking(ctx context.Context, in BookingInput, e catalogEntry) ([]string, error) {
	if !e.active {
		return nil, invalid("eventTypeId", msgEventUnknown)
	}
	if profanity.ContainsInappropriate(e.name) {
		return nil, invalid("eventTypeId", msgEventInappropriate)
	}
	if in.Guests < e.minCap || in.Guests > e.maxCap {
		return nil, invalid("guests", msgGuestsRange, e.minCap, e.maxCap)
	}
	if in.Duration < e.minHours || in.Duration > e.maxHours {
		return nil, invalid("duration", msgHoursRange, formatHours(e.minHours), formatHours(e.maxHours))
	}
	if err := s.checkCapacity(ctx, in.Date, in.Guests, ""); err != nil {
		return nil, err
	}
	return s.assignRooms(in.Rooms, in.Guests)
}

// checkCapacity enforces the per-event guest ceiling and the per-day event
// limit.  excludeID leaves one reservation out of the day count.
func (s *Reservations) checkCapacity(ctx context.Context, day model.Date, guests int, excludeID string) error {
	capCfg, err := s.settings.Capacity(ctx)
	if err != nil {
		return err
	}
	if ceiling := capCfg.GuestCeiling(); guests > ceiling {
		return &CapacityError{Message: fmt.Sprintf(msgGuestCeiling, ceiling)}
	}
	if capCfg.AllowOverbooking {
		return nil
	}
	n, err := s.countOnDate(ctx, day, excludeID)
	if err != nil {
		return err
	}
	if n >= capCfg.MaxEventsPerDay {
		return &CapacityError{Message: fmt.Sprintf(msgDayFull, capCfg.MaxEventsPerDay)}
	}
	return nil
}

// assignRooms validates requested room ids against the catalog, or picks the
// first active rooms according to the rooms advice.
func (s *Reservations) assignRooms(requested []string, guests int) ([]string, error) {
	catalog := model.DefaultRooms()
	active := make(map[string]bool, len(catalog))
	for _, r := range catalog {
		active[r.ID] = r.IsActive
	}

	if len(requested) > 0 {
		seen := map[string]bool{}
		out := make([]string, 0, len(requested))
		for _, id := range requested {
			id = strings.TrimSpace(id)
			if !active[id] {
				return nil, invalid("rooms", msgRoomUnknown, id)
			}
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		return out, nil
	}

	n := pricing.RoomsAdvice(guests).Rooms
	if n < 1 {
		n = 1
	}
	out := make([]string, 0, n)
	for _, r := range catalog {
		if r.IsActive && len(out) < n {
			out = append(out, r.ID)
		}
	}
	return out, nil
}

func (s *Reservations) newReservation(in BookingInput, rooms []string) model.Reservation {
	res := model.Reservation{
		OwnerID:     in.OwnerID,
		IsAnonymous: in.Anonymous,
		Date:        in.Date,
		Time:        strings.TrimSpace(in.Time),
		Duration:    in.Duration,
		Status:      model.StatusPending,
		Guests:      in.Guests,
		Rooms:       rooms,
		Notes:       []string{},
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if in.Anonymous {
		res.Name, res.Email, res.Phone = anonymousName, anonymousEmail, anonymousPhone
		res.RealName, res.RealEmail, res.RealPhone = name, email, phone
		res.Avatar = anonymousAvatar
	} else {
		res.Name, res.Email, res.Phone = name, email, phone
		res.Avatar = utils.Initials(name)
	}
	return res
}

func (s *Reservations) insert(ctx context.Context, op string, res model.Reservation) (model.Reservation, error) {
	remoteOK := false
	if s.remote != nil {
		if err := s.remote.Insert(ctx, res); err != nil {
			s.fallback(op, err)
		} else {
			remoteOK = true
		}
	}
	if err := s.local.Insert(ctx, res); err != nil {
		if !remoteOK {
			return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
	}
	s.metrics.Created(string(res.Variant))
	s.publish(ctx, queue.EventCreated, res)
	return res, nil
}

// QuoteInput describes a hypothetical booking.  Rooms defaults to the rooms
// advice for Guests.
type QuoteInput struct {
	Variant     model.Variant
	EventTypeID string
	Guests      int
	Duration    float64
	Rooms       int
}

// Quote prices a hypothetical booking without storing it.
func (s *Reservations) Quote(ctx context.Context, in QuoteInput) (pricing.Quote, error) {
	const op = "service.Reservations.Quote"

	if in.Guests <= 0 {
		return pricing.Quote{}, invalid("guests", msgRequired)
	}
	if in.Duration <= 0 {
		return pricing.Quote{}, invalid("duration", msgRequired)
	}
	rooms := in.Rooms
	if rooms <= 0 {
		rooms = max(1, pricing.RoomsAdvice(in.Guests).Rooms)
	}
	p, err := s.settings.Pricing(ctx)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("%s: %w", op, err)
	}

	var b model.PriceBreakdown
	if in.Variant == model.VariantDespechos {
		ev, err := s.settings.DespechosEvent(ctx, in.EventTypeID)
		if errors.Is(err, ErrNotFound) {
			return pricing.Quote{}, invalid("eventTypeId", msgEventUnknown)
		}
		if err != nil {
			return pricing.Quote{}, fmt.Errorf("%s: %w", op, err)
		}
		b = pricing.Despechos(ev, p, in.Guests, rooms, in.Duration)
	} else {
		et, err := s.settings.EventType(ctx, in.EventTypeID)
		if errors.Is(err, ErrNotFound) {
			return pricing.Quote{}, invalid("eventTypeId", msgEventUnknown)
		}
		if err != nil {
			return pricing.Quote{}, fmt.Errorf("%s: %w", op, err)
		}
		b = pricing.Regular(et, p, in.Guests, rooms, in.Duration)
	}
	return pricing.Quote{Guests: in.Guests, Hours: in.Duration, Rooms: rooms, Breakdown: b, Total: b.Total()}, nil
}

// ----- reads -----

// Get returns a reservation by id.
func (s *Reservations) Get(ctx context.Context, id string) (model.Reservation, error) {
	const op = "service.Reservations.Get"

	if s.remote != nil {
		res, err := s.remote.Get(ctx, id)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.fallback(op, err)
		}
	}
	res, err := s.local.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetOwned returns a reservation only when it was booked under ownerID.
func (s *Reservations) GetOwned(ctx context.Context, id, ownerID string) (model.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return res, err
	}
	if ownerID == "" || res.OwnerID != ownerID {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}

// all returns every reservation, newest first.  A successful remote read
// refreshes the local mirror and replays bookings the remote never received.
func (s *Reservations) all(ctx context.Context) ([]model.Reservation, error) {
	const op = "service.Reservations.List"

	if s.remote != nil {
		list, err := s.remote.List(ctx)
		if err == nil {
			pending, merr := s.local.Merge(ctx, list)
			if merr != nil {
				s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(merr))
			}
			for _, r := range pending {
				if ierr := s.remote.Insert(ctx, r); ierr != nil {
					s.log.Warn("replay to remote store failed", slog.String("op", op), slog.String("id", r.ID), sl.Err(ierr))
				} else {
					s.metrics.Synced()
				}
				list = append(list, r)
			}
			sortNewestFirst(list)
			return list, nil
		}
		s.fallback(op, err)
	}
	list, err := s.local.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sortNewestFirst(list)
	return list, nil
}

// Filter narrows an admin listing.  Status "" or "all" matches every status.
type Filter struct {
	Query      string
	Status     string
	ActiveOnly bool
}

// List returns the reservations matching f.  The query matches name, event
// type or email, case-insensitively.
func (s *Reservations) List(ctx context.Context, f Filter) ([]model.Reservation, error) {
	list, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	today := s.Today()
	out := make([]model.Reservation, 0, len(list))
	for _, r := range list {
		if f.ActiveOnly && !r.IsActive(today) {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(r.Status) != f.Status {
			continue
		}
		if q != "" && !containsAny(q, r.Name, r.EventType, r.Email) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ListMine returns the active reservations booked under ownerID.  A query
// narrows them by name, event type, email, client id or date (ISO or
// DD/MM/YYYY).
func (s *Reservations) ListMine(ctx context.Context, ownerID, query string) ([]model.Reservation, error) {
	const op = "service.Reservations.ListMine"

	if ownerID == "" {
		return []model.Reservation{}, nil
	}
	var list []model.Reservation
	if s.remote != nil {
		remote, err := s.remote.ListByOwner(ctx, ownerID)
		if err == nil {
			list = remote
		} else {
			s.fallback(op, err)
		}
	}
	if list == nil {
		local, err := s.local.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, r := range local {
			if r.OwnerID == ownerID {
				list = append(list, r)
			}
		}
		sortNewestFirst(list)
	}

	raw := strings.TrimSpace(query)
	q := strings.ToLower(raw)
	today := s.Today()
	out := make([]model.Reservation, 0, len(list))
	for _, r := range list {
		if !r.IsActive(today) {
			continue
		}
		if q != "" && !containsAny(q, r.Name, r.EventType, r.Email, r.OwnerID) &&
			!strings.Contains(r.Date.Display(), raw) && !strings.Contains(r.Date.String(), raw) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Stats summarizes reservations per status.  Revenue counts confirmed and
// completed reservations.
type Stats struct {
	Total        int   `json:"total"`
	Confirmed    int   `json:"confirmed"`
	Pending      int   `json:"pending"`
	Cancelled    int   `json:"cancelled"`
	InProgress   int   `json:"inProgress"`
	Completed    int   `json:"completed"`
	TotalRevenue int64 `json:"totalRevenue"`
}

func (s *Reservations) Stats(ctx context.Context) (Stats, error) {
	list, err := s.all(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(list), nil
}

// ComputeStats summarizes list.
func ComputeStats(list []model.Reservation) Stats {
	st := Stats{Total: len(list)}
	for _, r := range list {
		switch r.Status {
		case model.StatusConfirmed:
			st.Confirmed++
			st.TotalRevenue += r.TotalPrice
		case model.StatusPending:
			st.Pending++
		case model.StatusCancelled:
			st.Cancelled++
		case model.StatusInProgress:
			st.InProgress++
		case model.StatusCompleted:
			st.Completed++
			st.TotalRevenue += r.TotalPrice
		}
	}
	return st
}

// ----- writes -----

// UpdateStatus moves a reservation to status.
func (s *Reservations) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Reservation, error) {
	const op = "service.Reservations.UpdateStatus"

	if !status.Valid() {
		return model.Reservation{}, invalid("status", msgStatusInvalid, status)
	}
	res, err := s.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	unlock := s.lockDay(res.Date)
	defer unlock()
	if res.Status == model.StatusCancelled && status != model.StatusCancelled {
		if err := s.checkCapacity(ctx, res.Date, res.Guests, res.ID); err != nil {
			return model.Reservation{}, err
		}
	}
	res.Status = status

	if err := s.write(ctx, op, res, func(ctx context.Context) error {
		return s.remote.UpdateStatus(ctx, id, status)
	}); err != nil {
		return model.Reservation{}, err
	}
	s.publish(ctx, queue.EventStatusChanged, res)
	return res, nil
}

// EditInput holds the admin-editable fields.  Nil fields are left unchanged.
type EditInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Date     *model.Date
	Time     *string
	Guests   *int
	Duration *float64
	Status   *model.Status
	Notes    []string
}

// Edit applies in to a reservation.  A change of guests or duration
// re-prices the reservation when its event type still exists in the catalog.
func (s *Reservations) Edit(ctx context.Context, id string, in EditInput) (model.Reservation, error) {
	const op = "service.Reservations.Edit"

	res, err := s.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	wasCancelled := res.Status == model.StatusCancelled

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Reservation{}, invalid("name", msgContactRequired)
		}
		if profanity.ContainsInappropriate(name) {
			return model.Reservation{}, invalid("name", msgNameInappropriate)
		}
		if res.IsAnonymous {
			res.RealName = name
		} else {
			res.Name = name
			res.Avatar = utils.Initials(name)
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if res.IsAnonymous {
			res.RealEmail = email
		} else {
			res.Email = email
		}
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if res.IsAnonymous {
			res.RealPhone = phone
		} else {
			res.Phone = phone
		}
	}
	if in.Time != nil {
		if !model.ValidClock(*in.Time) {
			return model.Reservation{}, invalid("time", msgTimeInvalid)
		}
		res.Time = strings.TrimSpace(*in.Time)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return model.Reservation{}, invalid("status", msgStatusInvalid, *in.Status)
		}
		res.Status = *in.Status
	}
	if in.Notes != nil {
		res.Notes = cleanNotes(in.Notes)
	}

	reprice := false
	if in.Guests != nil {
		if *in.Guests <= 0 {
			return model.Reservation{}, invalid("guests", msgRequired)
		}
		reprice = reprice || *in.Guests != res.Guests
		res.Guests = *in.Guests
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return model.Reservation{}, invalid("duration", msgRequired)
		}
		reprice = reprice || *in.Duration != res.Duration
		res.Duration = *in.Duration
	}
	dateChanged := false
	if in.Date != nil && !in.Date.IsZero() && !in.Date.Equal(res.Date) {
		res.Date = *in.Date
		dateChanged = true
	}

	reopened := wasCancelled && res.Status != model.StatusCancelled
	unlock := s.lockDay(res.Date)
	defer unlock()

	if in.Guests != nil || dateChanged || reopened {
		capCfg, err := s.settings.Capacity(ctx)
		if err != nil {
			return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
		}
		if ceiling := capCfg.GuestCeiling(); res.Guests > ceiling {
			return model.Reservation{}, &CapacityError{Message: fmt.Sprintf(msgGuestCeiling, ceiling)}
		}
		if (dateChanged || reopened) && res.Status != model.StatusCancelled {
			if err := s.checkCapacity(ctx, res.Date, res.Guests, res.ID); err != nil {
				return model.Reservation{}, err
			}
		}
	}

	if reprice {
		if err := s.reprice(ctx, &res); err != nil {
			return model.Reservation{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.write(ctx, op, res, func(ctx context.Context) error {
		return s.remote.Update(ctx, res)
	}); err != nil {
		return model.Reservation{}, err
	}
	s.publish(ctx, queue.EventUpdated, res)
	return res, nil
}

// reprice recomputes the breakdown from the current catalogs.  Reservations
// whose event type no longer resolves keep their stored price.
func (s *Reservations) reprice(ctx context.Context, res *model.Reservation) error {
	if res.EventTypeID == "" {
		return nil
	}
	p, err := s.settings.Pricing(ctx)
	if err != nil {
		return err
	}
	switch res.Variant {
	case model.VariantDespechos:
		ev, err := s.settings.DespechosEvent(ctx, res.EventTypeID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.PriceBreakdown = pricing.Despechos(ev, p, res.Guests, len(res.Rooms), res.Duration)
	default:
		et, err := s.settings.EventType(ctx, res.EventTypeID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.PriceBreakdown = pricing.Regular(et, p, res.Guests, len(res.Rooms), res.Duration)
	}
	res.TotalPrice = res.PriceBreakdown.Total()
	return nil
}

// Delete removes a reservation from both stores.
func (s *Reservations) Delete(ctx context.Context, id string) error {
	const op = "service.Reservations.Delete"

	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	remoteOK := false
	if s.remote != nil {
		if err := s.remote.Delete(ctx, id); err == nil {
			remoteOK = true
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.fallback(op, err)
		}
	}
	if err := s.local.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		if !remoteOK {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
	}
	s.publish(ctx, queue.EventDeleted, res)
	return nil
}

// write stores res remotely through remoteFn and mirrors it locally.  A
// reservation missing from the local copy is inserted.
func (s *Reservations) write(ctx context.Context, op string, res model.Reservation, remoteFn func(context.Context) error) error {
	remoteOK := false
	if s.remote != nil {
		if err := remoteFn(ctx); err == nil {
			remoteOK = true
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.fallback(op, err)
		}
	}
	err := s.local.Update(ctx, res)
	if errors.Is(err, store.ErrNotFound) {
		err = s.local.Insert(ctx, res)
	}
	if err != nil {
		if !remoteOK {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
	}
	return nil
}

// ----- background jobs -----

// PrunePast deletes reservations dated before today and returns how many
// were removed.
func (s *Reservations) PrunePast(ctx context.Context, today model.Date) (int, error) {
	const op = "service.Reservations.PrunePast"

	removed, remoteOK := 0, false
	if s.remote != nil {
		n, err := s.remote.DeleteBefore(ctx, today)
		if err == nil {
			removed, remoteOK = n, true
		} else {
			s.fallback(op, err)
		}
	}
	n, err := s.local.DeleteBefore(ctx, today)
	if err != nil {
		if !remoteOK {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
	}
	if !remoteOK {
		removed = n
	}
	s.metrics.Pruned(removed)
	return removed, nil
}

// StartToday moves today's confirmed reservations to in-progress and
// returns how many changed.
func (s *Reservations) StartToday(ctx context.Context, today model.Date) (int, error) {
	const op = "service.Reservations.StartToday"

	started, remoteOK := 0, false
	if s.remote != nil {
		n, err := s.remote.MarkInProgress(ctx, today)
		if err == nil {
			started, remoteOK = n, true
		} else {
			s.fallback(op, err)
		}
	}

	list, err := s.local.List(ctx)
	if err != nil {
		if !remoteOK {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
		list = nil
	}
	localStarted := 0
	for _, r := range list {
		if r.Status != model.StatusConfirmed || !r.Date.Equal(today) {
			continue
		}
		r.Status = model.StatusInProgress
		if err := s.local.Update(ctx, r); err != nil {
			s.log.Warn("local status update failed", slog.String("op", op), slog.String("id", r.ID), sl.Err(err))
			continue
		}
		localStarted++
	}
	if !remoteOK {
		started = localStarted
	}
	s.metrics.Started(started)
	return started, nil
}

// ----- helpers -----

func (s *Reservations) countOnDate(ctx context.Context, day model.Date, excludeID string) (int, error) {
	const op = "service.Reservations.countOnDate"

	if s.remote != nil {
		n, err := s.remote.CountOnDate(ctx, day, excludeID)
		if err == nil {
			return n, nil
		}
		s.fallback(op, err)
	}
	list, err := s.local.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n := 0
	for _, r := range list {
		if r.Date.Equal(day) && r.Status != model.StatusCancelled && r.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (s *Reservations) fallback(op string, err error) {
	s.log.Warn("remote store failed, using local copy", slog.String("op", op), sl.Err(err))
	s.metrics.Fallback(op)
}

func (s *Reservations) publish(ctx context.Context, typ string, r model.Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		Status:        string(r.Status),
		EventType:     r.EventType,
		Date:          r.Date.String(),
		Guests:        r.Guests,
		TotalPrice:    r.TotalPrice,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish reservation event failed", slog.String("type", typ), sl.Err(err))
	}
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func sortNewestFirst(list []model.Reservation) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func firstN(opts []string, n int) []string {
	if len(opts) < n {
		n = len(opts)
	}
	return append([]string{}, opts[:n]...)
}

func nonNilCopy(opts []string) []string {
	return append([]string{}, opts...)
}

func cleanNotes(notes []string) []string {
	out := []string{}
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
