package astro

import "fmt"

// Group names a subset of the catalog used by one kind of instrument.
type Group string

const (
	GroupPole        Group = "pole"
	GroupCircumpolar Group = "circumpolar"
	GroupBright      Group = "bright"
)

// Body is a catalogued fixed star.
type Body struct {
	Name          string  `json:"name"`
	RAHours       float64 `json:"ra_hours"` // J2000
	DecDeg        float64 `json:"dec_deg"`  // J2000
	Mag           float64 `json:"magnitude"`
	Constellation string  `json:"constellation,omitempty"`
	Group         Group   `json:"group"`
	PoleStar      bool    `json:"pole_star,omitempty"`
}

// poleDriftDegPerCentury is the linear declination drift applied to pole stars.
const poleDriftDegPerCentury = 0.0139

// CorrectedDec returns the declination at the given Julian centuries from
// J2000. Only pole stars carry a correction.
func (b Body) CorrectedDec(centuries float64) float64 {
	if !b.PoleStar {
		return b.DecDeg
	}
	return b.DecDeg + poleDriftDegPerCentury*centuries
}

// Catalog is a read-only set of bodies addressable by name.
type Catalog struct {
	bodies []Body
	byName map[string]int
}

// NewCatalog builds a catalog. Duplicate names are rejected.
func NewCatalog(bodies []Body) (*Catalog, error) {
	c := &Catalog{
		bodies: make([]Body, len(bodies)),
		byName: make(map[string]int, len(bodies)),
	}
	copy(c.bodies, bodies)
	for i, b := range c.bodies {
		if _, dup := c.byName[b.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate body %q", b.Name)
		}
		c.byName[b.Name] = i
	}
	return c, nil
}

// Lookup returns the named body or a *LookupError.
func (c *Catalog) Lookup(name string) (Body, error) {
	i, ok := c.byName[name]
	if !ok {
		return Body{}, &LookupError{Table: "star catalog", Key: name}
	}
	return c.bodies[i], nil
}

// Group returns the bodies of one group in catalog order.
func (c *Catalog) Group(g Group) []Body {
	var out []Body
	for _, b := range c.bodies {
		if b.Group == g {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of bodies.
func (c *Catalog) Len() int { return len(c.bodies) }

var defaultCatalog *Catalog

func init() {
	c, err := NewCatalog(defaultBodies)
	if err != nil {
		panic(err)
	}
	defaultCatalog = c
}

// DefaultCatalog returns the built-in catalog: Polaris, the circumpolar
// asterisms of UMa, Cas, Dra and Cep, and ten bright stars.
func DefaultCatalog() *Catalog { return defaultCatalog }

// Polaris returns the pole star entry.
func Polaris() Body {
	b, _ := defaultCatalog.Lookup("Polaris")
	return b
}

var defaultBodies = []Body{
	{Name: "Polaris", RAHours: 2.530, DecDeg: 89.264, Mag: 1.98, Constellation: "UMi", Group: GroupPole, PoleStar: true},

	// Ursa Major
	{Name: "Dubhe", RAHours: 11.062, DecDeg: 61.751, Mag: 1.8, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Merak", RAHours: 11.031, DecDeg: 56.383, Mag: 2.4, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Phecda", RAHours: 11.897, DecDeg: 53.695, Mag: 2.4, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Megrez", RAHours: 12.257, DecDeg: 57.033, Mag: 3.3, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Alioth", RAHours: 12.900, DecDeg: 55.960, Mag: 1.8, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Mizar", RAHours: 13.420, DecDeg: 54.925, Mag: 2.3, Constellation: "UMa", Group: GroupCircumpolar},
	{Name: "Alkaid", RAHours: 13.792, DecDeg: 49.313, Mag: 1.9, Constellation: "UMa", Group: GroupCircumpolar},

	// Cassiopeia
	{Name: "Schedar", RAHours: 0.675, DecDeg: 56.538, Mag: 2.2, Constellation: "Cas", Group: GroupCircumpolar},
	{Name: "Caph", RAHours: 0.153, DecDeg: 59.150, Mag: 2.3, Constellation: "Cas", Group: GroupCircumpolar},
	{Name: "Gamma Cas", RAHours: 0.945, DecDeg: 60.717, Mag: 2.5, Constellation: "Cas", Group: GroupCircumpolar},
	{Name: "Ruchbah", RAHours: 1.430, DecDeg: 60.235, Mag: 2.7, Constellation: "Cas", Group: GroupCircumpolar},
	{Name: "Segin", RAHours: 1.906, DecDeg: 63.670, Mag: 3.4, Constellation: "Cas", Group: GroupCircumpolar},

	// Draco
	{Name: "Thuban", RAHours: 14.073, DecDeg: 64.376, Mag: 3.7, Constellation: "Dra", Group: GroupCircumpolar},
	{Name: "Etamin", RAHours: 17.943, DecDeg: 51.489, Mag: 2.2, Constellation: "Dra", Group: GroupCircumpolar},
	{Name: "Rastaban", RAHours: 17.507, DecDeg: 52.301, Mag: 2.8, Constellation: "Dra", Group: GroupCircumpolar},

	// Cepheus
	{Name: "Alderamin", RAHours: 21.310, DecDeg: 62.585, Mag: 2.4, Constellation: "Cep", Group: GroupCircumpolar},
	{Name: "Alfirk", RAHours: 21.477, DecDeg: 70.561, Mag: 3.2, Constellation: "Cep", Group: GroupCircumpolar},

	// Bright stars, brightest first
	{Name: "Sirius", RAHours: 6.752, DecDeg: -16.716, Mag: -1.46, Constellation: "CMa", Group: GroupBright},
	{Name: "Canopus", RAHours: 6.400, DecDeg: -52.696, Mag: -0.74, Constellation: "Car", Group: GroupBright},
	{Name: "Arcturus", RAHours: 14.261, DecDeg: 19.182, Mag: -0.05, Constellation: "Boo", Group: GroupBright},
	{Name: "Vega", RAHours: 18.615, DecDeg: 38.784, Mag: 0.03, Constellation: "Lyr", Group: GroupBright},
	{Name: "Capella", RAHours: 5.278, DecDeg: 45.998, Mag: 0.08, Constellation: "Aur", Group: GroupBright},
	{Name: "Rigel", RAHours: 5.242, DecDeg: -8.202, Mag: 0.13, Constellation: "Ori", Group: GroupBright},
	{Name: "Procyon", RAHours: 7.655, DecDeg: 5.225, Mag: 0.34, Constellation: "CMi", Group: GroupBright},
	{Name: "Betelgeuse", RAHours: 5.919, DecDeg: 7.407, Mag: 0.50, Constellation: "Ori", Group: GroupBright},
	{Name: "Altair", RAHours: 19.846, DecDeg: 8.868, Mag: 0.77, Constellation: "Aql", Group: GroupBright},
	{Name: "Aldebaran", RAHours: 4.599, DecDeg: 16.509, Mag: 0.85, Constellation: "Tau", Group: GroupBright},
}
