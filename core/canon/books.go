package canon

// Testament partitions the canon into the Old and New Testaments.
type Testament string

// Testament constants.
const (
	OldTestament Testament = "OLD"
	NewTestament Testament = "NEW"
)

// IsValid returns true if t is OLD or NEW.
func (t Testament) IsValid() bool {
	return t == OldTestament || t == NewTestament
}

// BookEntry is one row of the canonical book table.
type BookEntry struct {
	// Name is the canonical Spanish title (e.g., "Génesis", "1 Juan").
	Name string `json:"name"`

	// Abbrev is the customary short form (e.g., "Gn", "1Jn").
	Abbrev string `json:"abbrev"`

	// ChapterCount is the number of real chapters, not counting the introduction.
	ChapterCount int `json:"chapters"`

	// Testament is OLD or NEW.
	Testament Testament `json:"testament"`
}

// books is the canonical table in canonical order. Entries are addressed by
// pointer, so the array must never be resliced or copied.
var books = [...]BookEntry{
	{"Génesis", "Gn", 50, OldTestament},
	{"Éxodo", "Ex", 40, OldTestament},
	{"Levítico", "Lv", 27, OldTestament},
	{"Números", "Nm", 36, OldTestament},
	{"Deuteronomio", "Dt", 34, OldTestament},
	{"Josué", "Jos", 24, OldTestament},
	{"Jueces", "Jue", 21, OldTestament},
	{"Rut", "Rt", 4, OldTestament},
	{"1 Samuel", "1S", 31, OldTestament},
	{"2 Samuel", "2S", 24, OldTestament},
	{"1 Reyes", "1R", 22, OldTestament},
	{"2 Reyes", "2R", 25, OldTestament},
	{"1 Crónicas", "1Cr", 29, OldTestament},
	{"2 Crónicas", "2Cr", 36, OldTestament},
	{"Esdras", "Esd", 10, OldTestament},
	{"Nehemías", "Neh", 13, OldTestament},
	{"Ester", "Est", 10, OldTestament},
	{"Job", "Job", 42, OldTestament},
	{"Salmos", "Sal", 150, OldTestament},
	{"Proverbios", "Pr", 31, OldTestament},
	{"Eclesiastés", "Ec", 12, OldTestament},
	{"Cantares", "Cnt", 8, OldTestament},
	{"Isaías", "Is", 66, OldTestament},
	{"Jeremías", "Jer", 52, OldTestament},
	{"Lamentaciones", "Lam", 5, OldTestament},
	{"Ezequiel", "Ez", 48, OldTestament},
	{"Daniel", "Dn", 12, OldTestament},
	{"Oseas", "Os", 14, OldTestament},
	{"Joel", "Jl", 3, OldTestament},
	{"Amós", "Am", 9, OldTestament},
	{"Abdías", "Abd", 1, OldTestament},
	{"Jonás", "Jon", 4, OldTestament},
	{"Miqueas", "Miq", 7, OldTestament},
	{"Nahúm", "Nah", 3, OldTestament},
	{"Habacuc", "Hab", 3, OldTestament},
	{"Sofonías", "Sof", 3, OldTestament},
	{"Hageo", "Hag", 2, OldTestament},
	{"Zacarías", "Zac", 14, OldTestament},
	{"Malaquías", "Mal", 4, OldTestament},

	{"Mateo", "Mt", 28, NewTestament},
	{"Marcos", "Mc", 16, NewTestament},
	{"Lucas", "Lc", 24, NewTestament},
	{"Juan", "Jn", 21, NewTestament},
	{"Hechos", "Hch", 28, NewTestament},
	{"Romanos", "Ro", 16, NewTestament},
	{"1 Corintios", "1Co", 16, NewTestament},
	{"2 Corintios", "2Co", 13, NewTestament},
	{"Gálatas", "Ga", 6, NewTestament},
	{"Efesios", "Ef", 6, NewTestament},
	{"Filipenses", "Fil", 4, NewTestament},
	{"Colosenses", "Col", 4, NewTestament},
	{"1 Tesalonicenses", "1Ts", 5, NewTestament},
	{"2 Tesalonicenses", "2Ts", 3, NewTestament},
	{"1 Timoteo", "1Ti", 6, NewTestament},
	{"2 Timoteo", "2Ti", 4, NewTestament},
	{"Tito", "Tit", 3, NewTestament},
	{"Filemón", "Flm", 1, NewTestament},
	{"Hebreos", "Heb", 13, NewTestament},
	{"Santiago", "Stg", 5, NewTestament},
	{"1 Pedro", "1P", 5, NewTestament},
	{"2 Pedro", "2P", 3, NewTestament},
	{"1 Juan", "1Jn", 5, NewTestament},
	{"2 Juan", "2Jn", 1, NewTestament},
	{"3 Juan", "3Jn", 1, NewTestament},
	{"Judas", "Jud", 1, NewTestament},
	{"Apocalipsis", "Ap", 22, NewTestament},
}

// Book counts per testament.
const (
	OldTestamentBooks = 39
	NewTestamentBooks = 27
)

// aliases are extra lookup keys beyond the canonical name and abbreviation.
// Keys are matched after folding, so accents and case do not matter.
var aliases = map[string]string{
	"gen":    "Génesis",
	"exo":    "Éxodo",
	"lev":    "Levítico",
	"num":    "Números",
	"deut":   "Deuteronomio",
	"jue":    "Jueces",
	"1sam":   "1 Samuel",
	"2sam":   "2 Samuel",
	"1re":    "1 Reyes",
	"2re":    "2 Reyes",
	"1cro":   "1 Crónicas",
	"2cro":   "2 Crónicas",
	"sl":     "Salmos",
	"salmo":  "Salmos",
	"prov":   "Proverbios",
	"ecl":    "Eclesiastés",
	"cantar": "Cantares",
	"isa":    "Isaías",
	"jr":     "Jeremías",
	"ezeq":   "Ezequiel",
	"dan":    "Daniel",
	"mat":    "Mateo",
	"mr":     "Marcos",
	"mar":    "Marcos",
	"luc":    "Lucas",
	"hech":   "Hechos",
	"hch":    "Hechos",
	"rom":    "Romanos",
	"gal":    "Gálatas",
	"efe":    "Efesios",
	"flp":    "Filipenses",
	"1tes":   "1 Tesalonicenses",
	"2tes":   "2 Tesalonicenses",
	"1tim":   "1 Timoteo",
	"2tim":   "2 Timoteo",
	"filem":  "Filemón",
	"heb":    "Hebreos",
	"sant":   "Santiago",
	"1pe":    "1 Pedro",
	"2pe":    "2 Pedro",
	"apoc":   "Apocalipsis",
	"apc":    "Apocalipsis",
}
