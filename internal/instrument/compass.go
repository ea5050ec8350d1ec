package instrument

import (
	"math"

	"github.com/litescript/ls-yantra/internal/astro"
)

// CompassPoint is one point of the 32-point rose.
type CompassPoint struct {
	Name     string  `json:"name"`
	AngleDeg float64 `json:"angle_deg"`
	Type     string  `json:"type"`
	Color    string  `json:"color"`
	FullName string  `json:"full_name"`
}

// VedicDirection is one of the eight traditional directions (dik).
type VedicDirection struct {
	SanskritName string  `json:"sanskrit_name"`
	EnglishName  string  `json:"english_name"`
	AngleDeg     float64 `json:"angle_deg"`
	Deity        string  `json:"deity"`
	Element      string  `json:"element"`
	Color        string  `json:"color"`
}

var compassRose = []CompassPoint{
	{"N", 0, "cardinal", "#FF0000", "North"},
	{"E", 90, "cardinal", "#FF0000", "East"},
	{"S", 180, "cardinal", "#FF0000", "South"},
	{"W", 270, "cardinal", "#FF0000", "West"},

	{"NE", 45, "intercardinal", "#0066CC", "Northeast"},
	{"SE", 135, "intercardinal", "#0066CC", "Southeast"},
	{"SW", 225, "intercardinal", "#0066CC", "Southwest"},
	{"NW", 315, "intercardinal", "#0066CC", "Northwest"},

	{"NNE", 22.5, "half-wind", "#00AA44", "North-northeast"},
	{"ENE", 67.5, "half-wind", "#00AA44", "East-northeast"},
	{"ESE", 112.5, "half-wind", "#00AA44", "East-southeast"},
	{"SSE", 157.5, "half-wind", "#00AA44", "South-southeast"},
	{"SSW", 202.5, "half-wind", "#00AA44", "South-southwest"},
	{"WSW", 247.5, "half-wind", "#00AA44", "West-southwest"},
	{"WNW", 292.5, "half-wind", "#00AA44", "West-northwest"},
	{"NNW", 337.5, "half-wind", "#00AA44", "North-northwest"},

	{"NbE", 11.25, "quarter-wind", "#AA6600", "North by East"},
	{"NEbN", 33.75, "quarter-wind", "#AA6600", "Northeast by North"},
	{"NEbE", 56.25, "quarter-wind", "#AA6600", "Northeast by East"},
	{"EbN", 78.75, "quarter-wind", "#AA6600", "East by North"},
	{"EbS", 101.25, "quarter-wind", "#AA6600", "East by South"},
	{"SEbE", 123.75, "quarter-wind", "#AA6600", "Southeast by East"},
	{"SEbS", 146.25, "quarter-wind", "#AA6600", "Southeast by South"},
	{"SbE", 168.75, "quarter-wind", "#AA6600", "South by East"},
	{"SbW", 191.25, "quarter-wind", "#AA6600", "South by West"},
	{"SWbS", 213.75, "quarter-wind", "#AA6600", "Southwest by South"},
	{"SWbW", 236.25, "quarter-wind", "#AA6600", "Southwest by West"},
	{"WbS", 258.75, "quarter-wind", "#AA6600", "West by South"},
	{"WbN", 281.25, "quarter-wind", "#AA6600", "West by North"},
	{"NWbW", 303.75, "quarter-wind", "#AA6600", "Northwest by West"},
	{"NWbN", 326.25, "quarter-wind", "#AA6600", "Northwest by North"},
	{"NbW", 348.75, "quarter-wind", "#AA6600", "North by West"},
}

var elementColors = map[string]string{
	"Earth": "#8B4513",
	"Water": "#4169E1",
	"Air":   "#87CEEB",
	"Fire":  "#FF6347",
}

var vedicDirections = []VedicDirection{
	{SanskritName: "उत्तर (Uttar)", EnglishName: "North", AngleDeg: 0, Deity: "Kubera", Element: "Earth"},
	{SanskritName: "ईशान (Ishan)", EnglishName: "Northeast", AngleDeg: 45, Deity: "Shiva", Element: "Water"},
	{SanskritName: "पूर्व (Purva)", EnglishName: "East", AngleDeg: 90, Deity: "Indra", Element: "Air"},
	{SanskritName: "आग्नेय (Agneya)", EnglishName: "Southeast", AngleDeg: 135, Deity: "Agni", Element: "Fire"},
	{SanskritName: "दक्षिण (Dakshin)", EnglishName: "South", AngleDeg: 180, Deity: "Yama", Element: "Fire"},
	{SanskritName: "नैऋत्य (Nairitya)", EnglishName: "Southwest", AngleDeg: 225, Deity: "Nirriti", Element: "Earth"},
	{SanskritName: "पश्चिम (Paschim)", EnglishName: "West", AngleDeg: 270, Deity: "Varuna", Element: "Water"},
	{SanskritName: "वायव्य (Vayavya)", EnglishName: "Northwest", AngleDeg: 315, Deity: "Vayu", Element: "Air"},
}

func init() {
	for i := range vedicDirections {
		vedicDirections[i].Color = elementColors[vedicDirections[i].Element]
	}
}

// CompassRose returns a copy of the 32-point rose.
func CompassRose() []CompassPoint {
	out := make([]CompassPoint, len(compassRose))
	copy(out, compassRose)
	return out
}

// VedicDirections returns a copy of the eight traditional directions.
func VedicDirections() []VedicDirection {
	out := make([]VedicDirection, len(vedicDirections))
	copy(out, vedicDirections)
	return out
}

// NearestCompassPoint returns the rose point closest to a bearing and the
// angular distance to it. Ties go to the point listed first.
func NearestCompassPoint(azDeg float64) (CompassPoint, float64) {
	az := astro.Normalize360(azDeg)
	best, bestDiff := compassRose[0], math.Inf(1)
	for _, p := range compassRose {
		d := math.Abs(p.AngleDeg - az)
		if d > 180 {
			d = 360 - d
		}
		if d < bestDiff {
			best, bestDiff = p, d
		}
	}
	return best, bestDiff
}

// ScaleMark is a graduation of an azimuth ring.
type ScaleMark struct {
	AngleDeg float64 `json:"angle_deg"`
	Type     string  `json:"type"`
	LengthM  float64 `json:"length_m"`
	Label    string  `json:"label,omitempty"`
}
