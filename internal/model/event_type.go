package model

// EventType describes a bookable kind of event in the regular flow.
// BasePrice is charged per guest.  The option lists double as the catalog
// shown to customers and as the switch deciding whether the per-guest
// catering, decoration and audio-visual rates apply.
type EventType struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	IsActive             bool     `json:"isActive"`
	MaxCapacity          int      `json:"maxCapacity"`
	MinCapacity          int      `json:"minCapacity"`
	BasePrice            int64    `json:"basePrice"`
	HourlyRate           int64    `json:"hourlyRate"`
	MinHours             float64  `json:"minHours"`
	MaxHours             float64  `json:"maxHours"`
	RequiresSpecialSetup bool     `json:"requiresSpecialSetup"`
	SpecialRequirements  []string `json:"specialRequirements"`
	CateringOptions      []string `json:"cateringOptions"`
	DecorationOptions    []string `json:"decorationOptions"`
	AudioVisualOptions   []string `json:"audioVisualOptions"`
	Icon                 string   `json:"icon"`
	Color                string   `json:"color"`
}

// DespechosEvent describes a visit package of the Marlett de Despechos
// bar.  CoverPrice is charged per guest and AdditionalCosts once per booking.
type DespechosEvent struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	IsActive             bool     `json:"isActive"`
	MaxCapacity          int      `json:"maxCapacity"`
	MinCapacity          int      `json:"minCapacity"`
	CoverPrice           int64    `json:"coverPrice"`
	MinHours             float64  `json:"minHours"`
	MaxHours             float64  `json:"maxHours"`
	RequiresSpecialSetup bool     `json:"requiresSpecialSetup"`
	SpecialRequirements  []string `json:"specialRequirements"`
	CateringOptions      []string `json:"cateringOptions"`
	DecorationOptions    []string `json:"decorationOptions"`
	AudioVisualOptions   []string `json:"audioVisualOptions"`
	Icon                 string   `json:"icon"`
	Color                string   `json:"color"`
	AdditionalCosts      int64    `json:"additionalCosts"`
}

// DefaultEventTypes returns the stock regular event catalog.
func DefaultEventTypes() []EventType {
	return []EventType{
		{
			ID: "boda", Name: "Boda y Celebración", Description: "Celebra el amor con estilo",
			IsActive: true, MaxCapacity: 450, MinCapacity: 20, BasePrice: 45, HourlyRate: 3000,
			MinHours: 4, MaxHours: 12, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Arco nupcial", "Mesa de novios", "Pista de baile"},
			CateringOptions:     []string{"Menú completo", "Cóctel de bienvenida", "Pastel de bodas", "Bar completo"},
			DecorationOptions:   []string{"Flores naturales", "Candelabros", "Mantelería premium", "Centros de mesa"},
			AudioVisualOptions:  []string{"Sistema de audio profesional", "Iluminación ambiental", "Proyector para presentación", "DJ o banda en vivo"},
			Icon: "Heart", Color: "#ef4444",
		},
		{
			ID: "corporativo", Name: "Evento Corporativo", Description: "Profesionalismo y elegancia",
			IsActive: true, MaxCapacity: 450, MinCapacity: 10, BasePrice: 35, HourlyRate: 3000,
			MinHours: 2, MaxHours: 8, RequiresSpecialSetup: false,
			SpecialRequirements: []string{"Pódium", "Sistema de presentación"},
			CateringOptions:     []string{"Coffee break", "Almuerzo ejecutivo", "Refrigerios", "Bebidas"},
			DecorationOptions:   []string{"Branding corporativo", "Banderas", "Mantelería ejecutiva"},
			AudioVisualOptions:  []string{"Proyector HD", "Sistema de audio", "Micrófonos inalámbricos", "Pizarra digital"},
			Icon: "Target", Color: "#3b82f6",
		},
		{
			ID: "gala", Name: "Cena de Gala", Description: "Experiencia gastronómica premium",
			IsActive: true, MaxCapacity: 450, MinCapacity: 30, BasePrice: 60, HourlyRate: 3000,
			MinHours: 3, MaxHours: 8, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Mesa principal", "Iluminación especial"},
			CateringOptions:     []string{"Menú gourmet", "Vinos selectos", "Servicio de mesa", "Chef personal"},
			DecorationOptions:   []string{"Flores premium", "Cristalería fina", "Mantelería de lujo", "Centros de mesa elegantes"},
			AudioVisualOptions:  []string{"Música ambiental", "Iluminación dramática", "Sistema de audio discreto"},
			Icon: "Crown", Color: "#f59e0b",
		},
		{
			ID: "privado", Name: "Evento Privado", Description: "Intimidad y exclusividad",
			IsActive: true, MaxCapacity: 450, MinCapacity: 10, BasePrice: 40, HourlyRate: 3000,
			MinHours: 2, MaxHours: 10, RequiresSpecialSetup: false,
			SpecialRequirements: []string{"Configuración personalizada"},
			CateringOptions:     []string{"Menú personalizado", "Bebidas seleccionadas", "Servicio discreto"},
			DecorationOptions:   []string{"Decoración personalizada", "Ambiente íntimo"},
			AudioVisualOptions:  []string{"Música personalizada", "Iluminación suave"},
			Icon: "Star", Color: "#8b5cf6",
		},
		{
			ID: "cumpleanos", Name: "Cumpleaños", Description: "Celebración única y memorable",
			IsActive: true, MaxCapacity: 450, MinCapacity: 15, BasePrice: 30, HourlyRate: 3000,
			MinHours: 3, MaxHours: 8, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Mesa de pastel", "Decoración temática"},
			CateringOptions:     []string{"Pastel personalizado", "Refrigerios", "Bebidas", "Snacks"},
			DecorationOptions:   []string{"Decoración temática", "Globos", "Banderas", "Centros de mesa"},
			AudioVisualOptions:  []string{"Música animada", "Iluminación festiva", "Proyector para fotos"},
			Icon: "Gift", Color: "#10b981",
		},
		{
			ID: "aniversario", Name: "Aniversario", Description: "Renueva tus promesas",
			IsActive: true, MaxCapacity: 450, MinCapacity: 20, BasePrice: 35, HourlyRate: 3000,
			MinHours: 3, MaxHours: 8, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Mesa romántica", "Decoración especial"},
			CateringOptions:     []string{"Menú romántico", "Vino espumante", "Pastel especial"},
			DecorationOptions:   []string{"Flores románticas", "Velas", "Mantelería elegante"},
			AudioVisualOptions:  []string{"Música romántica", "Iluminación suave", "Proyector para fotos"},
			Icon: "Star", Color: "#ec4899",
		},
	}
}

// DefaultDespechosEvents returns the stock despechos visit packages.
func DefaultDespechosEvents() []DespechosEvent {
	return []DespechosEvent{
		{
			ID: "despecho-visita-corta", Name: "Visita Corta - Desahogo Rápido",
			Description: "Perfecto para una o dos bebidas y cantar un par de canciones",
			IsActive:    true, MaxCapacity: 8, MinCapacity: 1, CoverPrice: 150,
			MinHours: 0.5, MaxHours: 1, RequiresSpecialSetup: false,
			SpecialRequirements: []string{"Mesa básica", "Acceso a karaoke"},
			CateringOptions:     []string{"Cover de entrada", "Bebidas por separado", "Snacks básicos"},
			DecorationOptions:   []string{"Ambiente de despecho", "Música temática"},
			AudioVisualOptions:  []string{"Karaoke", "Música de fondo", "Iluminación básica"},
			Icon: "Users", Color: "#ef4444", AdditionalCosts: 0,
		},
		{
			ID: "despecho-promedio", Name: "Visita Promedio - Noche Estándar",
			Description: "Experiencia completa de despecho con tiempo para disfrutar",
			IsActive:    true, MaxCapacity: 12, MinCapacity: 2, CoverPrice: 250,
			MinHours: 1.5, MaxHours: 2.5, RequiresSpecialSetup: false,
			SpecialRequirements: []string{"Mesa reservada", "Karaoke ilimitado"},
			CateringOptions:     []string{"Cover de entrada", "Bebidas incluidas (limitadas)", "Botanas"},
			DecorationOptions:   []string{"Ambiente temático", "Accesorios de despecho"},
			AudioVisualOptions:  []string{"Karaoke profesional", "Música personalizada", "Iluminación ambiental"},
			Icon: "Music", Color: "#3b82f6", AdditionalCosts: 0,
		},
		{
			ID: "despecho-visita-larga", Name: "Visita Larga - Noche Completa",
			Description: "Noche completa de despecho con karaoke, música en vivo y grupos de amigos",
			IsActive:    true, MaxCapacity: 15, MinCapacity: 4, CoverPrice: 400,
			MinHours: 3, MaxHours: 4, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Mesa VIP", "Karaoke privado", "Área reservada"},
			CateringOptions:     []string{"Cover premium", "Bebidas incluidas (generosas)", "Botanas premium"},
			DecorationOptions:   []string{"Decoración completa", "Ambiente VIP", "Accesorios especiales"},
			AudioVisualOptions:  []string{"Karaoke profesional", "Música en vivo", "Iluminación especial", "Efectos de sonido"},
			Icon: "Crown", Color: "#f59e0b", AdditionalCosts: 200,
		},
		{
			ID: "despecho-evento-especial", Name: "Evento Especial - Show de Despecho",
			Description: "Aniversarios, rupturas recientes, shows especiales - La experiencia definitiva",
			IsActive:    true, MaxCapacity: 20, MinCapacity: 6, CoverPrice: 600,
			MinHours: 4, MaxHours: 6, RequiresSpecialSetup: true,
			SpecialRequirements: []string{"Salón privado", "Show personalizado", "Staff dedicado"},
			CateringOptions:     []string{"Cover VIP", "Barra libre", "Menú especial de despecho"},
			DecorationOptions:   []string{"Decoración temática completa", "Ambiente de show", "Accesorios premium"},
			AudioVisualOptions:  []string{"Sistema profesional", "Show en vivo", "Efectos especiales", "Iluminación de espectáculo"},
			Icon: "Sparkles", Color: "#8b5cf6", AdditionalCosts: 500,
		},
	}
}
