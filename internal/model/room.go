package model

// Room is one of the private rooms that can be booked alone or merged with
// its neighbours for larger events.
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	BasePrice   int64    `json:"basePrice"`
	IsActive    bool     `json:"isActive"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
}

// DefaultRooms returns the venue's room catalog.
func DefaultRooms() []Room {
	std := []string{"Televisor HD", "Sistema de sonido profesional", "Iluminación LED"}
	return []Room{
		{ID: "room1", Name: "Salón Privado A", Capacity: 80, BasePrice: 800, IsActive: true,
			Features: std, Description: "Salón privado con TV, luz y sonido integrados"},
		{ID: "room2", Name: "Salón Privado B", Capacity: 80, BasePrice: 700, IsActive: true,
			Features: std, Description: "Salón privado con TV, luz y sonido integrados"},
		{ID: "room3", Name: "Salón Privado C", Capacity: 80, BasePrice: 600, IsActive: true,
			Features: std, Description: "Salón privado con TV, luz y sonido integrados"},
		{ID: "room4", Name: "Salón Privado D", Capacity: 80, BasePrice: 900, IsActive: true,
			Features:    []string{"Televisor HD", "Sistema de sonido profesional", "Proyector multimedia", "Mobiliario premium"},
			Description: "Salón ejecutivo con vista panorámica y diseño moderno"},
	}
}
