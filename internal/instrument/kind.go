// Package instrument turns engine positions into the readouts of the five
// yantras. Each instrument picks the engine components it needs and lays
// the results out on its own dial.
package instrument

import (
	"errors"
	"fmt"
	"strings"

	"github.com/litescript/ls-yantra/internal/astro"
)

// ErrUnknownKind is returned by ParseKind for names that match no instrument.
var ErrUnknownKind = errors.New("unknown instrument")

// Kind identifies an instrument.
type Kind string

const (
	KindSamrat     Kind = "samrat"
	KindRasivalaya Kind = "rasivalaya"
	KindDhruva     Kind = "dhruva"
	KindRama       Kind = "rama"
	KindDigamsa    Kind = "digamsa"
)

var allKinds = []Kind{KindSamrat, KindRasivalaya, KindDhruva, KindRama, KindDigamsa}

// Kinds returns every instrument in display order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// aliases maps normalized spellings seen in requests and file names.
var aliases = map[string]Kind{
	"samrat":               KindSamrat,
	"samrat-yantra-calcs":  KindSamrat,
	"rasivalaya":           KindRasivalaya,
	"rasi-valya":           KindRasivalaya,
	"rasi-valaya":          KindRasivalaya,
	"dhruva":               KindDhruva,
	"dhruva-protha-chakra": KindDhruva,
	"dpcy":                 KindDhruva,
	"rama":                 KindRama,
	"yama":                 KindRama,
	"digamsa":              KindDigamsa,
	"diagsma":              KindDigamsa,
	"digansha":             KindDigamsa,
}

// ParseKind resolves an instrument name. Case, a trailing "yantra" and the
// choice of '-', '_' or ' ' as separator are ignored.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	key = strings.TrimSuffix(key, "-yantra")
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Info describes an instrument for listings and example requests.
type Info struct {
	Kind               Kind                 `json:"kind"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	Endpoint           string               `json:"endpoint"`
	Method             string               `json:"method"`
	NeedsTime          bool                 `json:"needs_time"`
	Projection         astro.ProjectionMode `json:"projection"`
	RequiredParameters map[string]string    `json:"required_parameters"`
	Example            Request              `json:"example"`
}

// Info returns the listing entry for k.
func (k Kind) Info() Info {
	info := Info{
		Kind:   k,
		Method: "POST",
		RequiredParameters: map[string]string{
			"latitude":  "float (degrees, -90 to 90)",
			"longitude": "float (degrees, -180 to 180)",
			"scale_m":   "float (meters, default 3.0)",
			"date":      "string (YYYY-MM-DD)",
		},
	}
	info.Example = NewRequest(28.6139, 77.2090, DefaultScaleM, "2024-01-15", "")

	switch k {
	case KindSamrat:
		info.Name = "Samrat Yantra"
		info.Description = "Samrat Yantra - Solar time measurement instrument"
		info.Endpoint = "/api/samrat-yantra"
		info.Projection = astro.ProjectionLinear
	case KindRasivalaya:
		info.Name = "Rasivalaya Yantra"
		info.Description = "Rasivalaya Yantra - Zodiac position tracking instrument"
		info.Endpoint = "/api/rasivalaya-yantra"
		info.Projection = astro.ProjectionLinear
		*info.Example.ScaleM = 5
		info.Example.Date = "2024-06-21"
	case KindDhruva:
		info.Name = "Dhruva-Protha-Chakra Yantra"
		info.Description = "Dhruva-Protha-Chakra Yantra - Polaris tracking instrument"
		info.Endpoint = "/api/dhruva-yantra"
		info.Projection = astro.ProjectionPolar
		info.NeedsTime = true
		*info.Example.ScaleM = 4
		info.Example.Time = "20:30"
	case KindRama:
		info.Name = "Rama Yantra"
		info.Description = "Rama Yantra - Altitude and azimuth measurement instrument"
		info.Endpoint = "/api/rama-yantra"
		info.Projection = astro.ProjectionPolar
		info.NeedsTime = true
		info.Example.Time = "14:30"
	case KindDigamsa:
		info.Name = "Digamsa Yantra"
		info.Description = "Digamsa Yantra - Azimuth and direction measurement instrument"
		info.Endpoint = "/api/digamsa-yantra"
		info.Projection = astro.ProjectionBearing
		info.NeedsTime = true
		info.Example.Time = "14:30"
	}
	if info.NeedsTime {
		info.RequiredParameters["time"] = "string (HH:MM, 24h)"
	}
	return info
}

// NeedsTime reports whether the instrument requires a clock time.
func (k Kind) NeedsTime() bool {
	return k == KindDhruva || k == KindRama || k == KindDigamsa
}

// YantraType is the type tag written into readouts.
func (k Kind) YantraType() string {
	if k == KindDhruva {
		return "dhruva_protha_chakra"
	}
	return string(k)
}
