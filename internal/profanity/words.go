package profanity

// blockedTerms are matched as substrings of the lower-cased input.
var blockedTerms = []string{
	// general insults
	"puto", "puta", "pendejo", "pendeja", "cabrón", "cabrona", "hijo de puta",
	"hija de puta", "joder", "coño", "cojones", "gilipollas", "imbécil",
	"estúpido", "estúpida", "idiota", "retrasado", "retrasada", "maricón",
	"marica", "bollera", "tortillera", "perra", "zorra", "golfa",

	// explicit sexual content
	"sexo", "porno", "pornografía", "prostituta", "prostituto", "escort",
	"stripper", "striptease", "orgía", "gang bang", "bukkake", "fetiche",
	"bdsm", "sadomasoquismo", "masturbación", "masturbarse", "correrse",
	"eyacular", "penetrar", "follar", "coger", "tirar", "culear",

	// drugs
	"cocaína", "heroína", "marihuana", "cannabis", "éxtasis", "lsd",
	"anfetaminas", "metanfetamina", "crack", "opio", "morfina", "fentanilo",
	"droga", "drogas", "narcótico", "narcóticos", "dealer", "traficante",
	"trapicheo", "porro", "churro", "maría", "hierba", "mota",

	// violence
	"matar", "asesinar", "homicidio", "suicidio", "suicidarse", "violación",
	"violar", "abusar", "maltrato", "tortura", "torturar", "secuestro",
	"secuestrar", "bomba", "explosivo", "terrorismo", "terrorista",
	"arma", "pistola", "rifle", "escopeta", "cuchillo", "navaja",

	// discrimination
	"nazi", "fascista", "racista", "xenófobo", "homófobo", "transfóbico",
	"supremacista", "ku klux klan", "kkk", "hitler", "holocausto",

	// illegal activity
	"lavado de dinero", "blanqueo", "evasión fiscal", "soborno", "corrupción",
	"extorsión", "chantaje", "fraude", "estafa", "robo", "hurto",
	"piratería", "falsificación", "contrabando", "trata de personas",

	// extremist or offensive religious content
	"blasfemia", "herejía", "satanismo", "ritual satánico", "secta",
	"culto", "extremismo religioso", "fundamentalismo",

	// events the restaurant does not host
	"funeral", "velorio", "sepelio", "entierro", "cremación", "autopsia",
	"morgue", "cementerio", "cadáver", "muerto", "difunto",
	"rito satánico", "sesión espiritista", "ouija", "exorcismo",

	// conflict
	"pelea", "riña", "bronca", "conflicto", "venganza", "revancha",
	"ajuste de cuentas", "duelo", "desafío", "confrontación",

	// political extremism
	"golpe de estado", "revolución armada", "insurrección", "sedición",
	"traición", "conspiración", "subversión",
}

// eventKeywords mark an event type name as plausibly legitimate, which
// relaxes the character whitelist applied to free-form names.
var eventKeywords = []string{
	"boda", "matrimonio", "casamiento", "wedding",
	"cumpleaños", "birthday", "aniversario", "anniversary",
	"graduación", "graduation", "titulación",
	"quinceañera", "quince años", "sweet sixteen",
	"baby shower", "despedida de soltera", "despedida de soltero",
	"bautizo", "comunión", "confirmación", "bar mitzvah", "bat mitzvah",
	"corporativo", "empresa", "trabajo", "business", "corporate",
	"conferencia", "seminario", "workshop", "capacitación", "training",
	"presentación", "lanzamiento", "launch", "networking",
	"cena", "almuerzo", "desayuno", "brunch", "dinner", "lunch",
	"gala", "premiación", "reconocimiento", "homenaje", "tribute",
	"celebración", "fiesta", "party", "celebration", "festejo",
	"reunión", "meeting", "junta", "encuentro", "gathering",
	"navidad", "año nuevo", "christmas", "new year", "pascua",
	"día de la madre", "día del padre", "san valentín", "valentine",
	"halloween", "día de muertos", "thanksgiving", "acción de gracias",
	"inauguración", "apertura", "opening", "clausura", "closing",
	"exposición", "exhibition", "muestra", "feria", "fair",
	"concierto", "concert", "recital", "show", "espectáculo",
	"teatro", "obra", "performance", "actuación",
	"deportivo", "sports", "competencia", "torneo", "championship",
	"charity", "caridad", "beneficencia", "solidaridad", "fundraising",
	"cultural", "arte", "art", "literatura", "poetry", "poesía",
}
