// Package lexicon holds the keyword tables driving severity scoring and
// category detection. A Lexicon is immutable after construction and is
// injected into the scorer, so tests can run against synthetic tables.
package lexicon

// General is the catch-all category assigned when no category keyword
// matches a report's text.
const General = "General"

// Category is a named event category with its detection keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Lexicon bundles the category keyword sets, the severity-weight table,
// the context-modifier table and the core high-specificity event phrases
// used by the clustering location override. Declaration order of the
// categories is significant: it breaks ties during category detection.
type Lexicon struct {
	categories []Category
	severity   map[string]float64
	context    map[string]float64
	core       []string
	flat       []string
}

// New builds a lexicon from the given tables. The category slice is kept
// in the order given.
func New(categories []Category, severity, context map[string]float64, core []string) *Lexicon {
	l := &Lexicon{
		categories: categories,
		severity:   severity,
		context:    context,
		core:       core,
	}
	for _, c := range categories {
		l.flat = append(l.flat, c.Keywords...)
	}
	return l
}

// Categories returns the category tables in declaration order.
func (l *Lexicon) Categories() []Category { return l.categories }

// SeverityWeights returns the keyword → severity weight table.
func (l *Lexicon) SeverityWeights() map[string]float64 { return l.severity }

// ContextModifiers returns the context keyword → modifier table.
// Modifiers may be negative.
func (l *Lexicon) ContextModifiers() map[string]float64 { return l.context }

// CorePhrases returns the high-specificity event phrases that can
// override the clustering location gate.
func (l *Lexicon) CorePhrases() []string { return l.core }

// FlatKeywords returns every category keyword, flattened in category
// declaration order.
func (l *Lexicon) FlatKeywords() []string { return l.flat }

// Default returns the built-in crisis lexicon.
func Default() *Lexicon {
	return New(defaultCategories, defaultSeverityWeights, defaultContextModifiers, defaultCorePhrases)
}

var defaultCategories = []Category{
	{Name: "Earthquake", Keywords: []string{"earthquake", "aftershock", "tremor", "seismic", "magnitude", "richter"}},
	{Name: "Flood", Keywords: []string{"flood", "flooding", "inundation", "overflow", "submerged"}},
	{Name: "Fire", Keywords: []string{"fire", "wildfire", "blaze", "burning"}},
	{Name: "Explosion", Keywords: []string{"explosion", "blast", "detonation", "explosive"}},
	{Name: "Shooting", Keywords: []string{"shooting", "gunman", "shots fired", "firearm"}},
	{Name: "Terrorism", Keywords: []string{"terrorist attack", "suicide bombing", "terror", "extremist"}},
	{Name: "War", Keywords: []string{"civil war", "conflict", "battle", "fighting", "invasion"}},
	{Name: "Epidemic", Keywords: []string{"epidemic", "pandemic", "outbreak", "virus", "disease"}},
	{Name: "Hurricane", Keywords: []string{"hurricane", "typhoon", "cyclone", "storm"}},
	{Name: "Cyber", Keywords: []string{"cyberattack", "hack", "data breach", "ransomware"}},
	{Name: "Protest", Keywords: []string{"riot", "violent protest", "clash", "demonstration"}},
	{Name: "Kidnapping", Keywords: []string{"kidnapping", "hostage", "abduction"}},
	{Name: "AirCrash", Keywords: []string{"plane crash", "aircraft crash", "aviation accident", "airliner", "flight crash", "crashed shortly after takeoff", "helicopter crash"}},
}

var defaultSeverityWeights = map[string]float64{
	// Extreme disasters
	"tsunami":          10,
	"nuclear":          10,
	"genocide":         10,
	"massacre":         10,
	"terrorist attack": 10,
	"suicide bombing":  10,

	// Physical disasters
	"earthquake":  8,
	"explosion":   8,
	"wildfire":    8,
	"hurricane":   8,
	"flood":       7,
	"landslide":   7,
	"air crash":   9,
	"plane crash": 9,

	// Human impact
	"dead":       3,
	"killed":     3,
	"fatal":      3,
	"injured":    2,
	"casualties": 3,
	"missing":    3,
	"evacuation": 4,
	"collapsed":  4,
	"destroyed":  4,

	// Escalators
	"massive":            2,
	"catastrophic":       3,
	"emergency":          3,
	"state of emergency": 4,
	"thousands":          3,
	"millions":           5,
	"critical":           3,
	"urgent":             2,
}

var defaultContextModifiers = map[string]float64{
	"catastrophic":       3,
	"deadly":             3,
	"state of emergency": 4,
	"thousands":          3,
	"millions":           5,
	"minor":              -2,
	"small":              -2,
	"no casualties":      -3,
}

var defaultCorePhrases = []string{
	"plane crash",
	"aircraft crash",
	"earthquake",
	"flood",
	"explosion",
	"wildfire",
	"hurricane",
	"pandemic",
}
