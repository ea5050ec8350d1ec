package instrument

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-yantra/internal/astro"
)

// DefaultScaleM is the instrument scale used when a request leaves it out.
const DefaultScaleM = 3.0

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Request is the common input of every instrument.
type Request struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	ScaleM    *float64 `json:"scale_m" default:"3" validate:"required,gt=0"`
	Date      string   `json:"date" validate:"required"`
	Time      string   `json:"time,omitempty"`
}

// NewRequest builds a request from plain values.
func NewRequest(lat, lon, scale float64, date, clock string) Request {
	return Request{Latitude: &lat, Longitude: &lon, ScaleM: &scale, Date: date, Time: clock}
}

// Scale returns the instrument scale in metres, or DefaultScaleM when the
// request leaves it out. An explicit zero is kept and fails validation.
func (r *Request) Scale() float64 {
	if r.ScaleM == nil {
		return DefaultScaleM
	}
	return *r.ScaleM
}

// Resolve applies defaults, validates the request for kind and parses its
// date and time. Every error is an *astro.ValidationError or an
// *astro.FormatError naming the offending field.
func (r *Request) Resolve(kind Kind) (astro.Observer, astro.Instant, error) {
	if err := defaults.Set(r); err != nil {
		return astro.Observer{}, astro.Instant{}, fmt.Errorf("apply defaults: %w", err)
	}

	if err := validate.Struct(r); err != nil {
		return astro.Observer{}, astro.Instant{}, toValidationError(err)
	}

	inst, err := astro.ParseInstant(r.Date, r.Time)
	if err != nil {
		return astro.Observer{}, astro.Instant{}, err
	}
	if kind.NeedsTime() && !inst.HasTime() {
		return astro.Observer{}, astro.Instant{}, &astro.ValidationError{
			Field:   "time",
			Message: fmt.Sprintf("time is required for %s", kind),
		}
	}

	obs := astro.Observer{LatDeg: *r.Latitude, LonDeg: *r.Longitude}
	if err := obs.Validate(); err != nil {
		return astro.Observer{}, astro.Instant{}, err
	}
	return obs, inst, nil
}

// ZoneTime returns now as wall time of the zone meridian.
func ZoneTime(now time.Time, meridianDeg float64) time.Time {
	return now.UTC().Add(time.Duration(meridianDeg / 15 * float64(time.Hour)))
}

// ZoneRequest builds a request for the zone wall time of now.
func ZoneRequest(now time.Time, meridianDeg, lat, lon, scale float64) Request {
	t := ZoneTime(now, meridianDeg)
	return NewRequest(lat, lon, scale, t.Format(astro.DateLayout), t.Format(astro.ClockLayout))
}

// Key is a canonical string for a resolved request, used as a cache key.
// The clock is part of the key for every instrument since readouts echo it.
func (r *Request) Key(kind Kind) string {
	var lat, lon float64
	if r.Latitude != nil {
		lat = *r.Latitude
	}
	if r.Longitude != nil {
		lon = *r.Longitude
	}
	return fmt.Sprintf("%s:%.6f:%.6f:%.4f:%s:%s", kind, lat, lon, r.Scale(),
		strings.TrimSpace(r.Date), strings.TrimSpace(r.Time))
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &astro.ValidationError{Field: "request", Message: err.Error()}
	}
	fe := verrs[0]
	return &astro.ValidationError{Field: fe.Field(), Message: errorMessage(fe)}
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
