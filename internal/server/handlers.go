package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/cache"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/version"
)

func (s *Server) health(c echo.Context) error {
	available := make([]string, 0, len(instrument.Kinds()))
	for _, k := range instrument.Kinds() {
		available = append(available, strings.TrimPrefix(k.Info().Endpoint, "/api/"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"service":           version.Service,
		"version":           version.Version,
		"timestamp":         s.now().UTC().Format(time.RFC3339),
		"available_yantras": available,
		"catalog_stars":     s.computer.Catalog().Len(),
	})
}

func (s *Server) listYantras(c echo.Context) error {
	yantras := make(map[string]instrument.Info, len(instrument.Kinds()))
	for _, k := range instrument.Kinds() {
		info := k.Info()
		yantras[strings.TrimPrefix(info.Endpoint, "/api/")] = info
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"available_yantras": yantras,
		"total_count":       len(yantras),
	})
}

func (s *Server) example(c echo.Context) error {
	kind, err := instrument.ParseKind(c.Param("type"))
	if err != nil {
		return s.fail(c, err)
	}
	info := kind.Info()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":     fmt.Sprintf("%s://%s%s", c.Scheme(), c.Request().Host, info.Endpoint),
		"method":  info.Method,
		"headers": map[string]string{"Content-Type": "application/json"},
		"body":    info.Example,
	})
}

func (s *Server) computeYantra(c echo.Context) error {
	kind, err := instrument.ParseKind(c.Param("type"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.handleCompute(c, kind)
}

func (s *Server) computeFixed(kind instrument.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.handleCompute(c, kind)
	}
}

func (s *Server) handleCompute(c echo.Context, kind instrument.Kind) error {
	var req instrument.Request
	if err := c.Bind(&req); err != nil {
		return s.fail(c, bindError(err))
	}

	data, err := s.readout(c.Request().Context(), kind, req)
	if err != nil {
		s.metrics.EngineError(string(kind), errorClass(err))
		return s.fail(c, err)
	}
	return success(c, json.RawMessage(data))
}

// readout returns the JSON readout for req, from the cache when possible.
func (s *Server) readout(ctx context.Context, kind instrument.Kind, req instrument.Request) ([]byte, error) {
	// Resolve applies defaults so equal requests share a key.
	if _, _, err := req.Resolve(kind); err != nil {
		return nil, err
	}
	key := cache.GenerateKeyWithParams("readout", kind, cache.HashKey(req.Key(kind)))

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			s.metrics.CacheHit()
			return data, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get %s: %v", key, err)
		}
		s.metrics.CacheMiss()
	}

	start := time.Now()
	r, err := s.computer.Compute(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReadout(string(kind), time.Since(start))

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode readout: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.log.Warn("cache set %s: %v", key, err)
		}
	}
	return data, nil
}

// engineQuery is the query string of the engine endpoints.
type engineQuery struct {
	lat, lon float64
	date     string
	clock    string
}

func bindEngineQuery(c echo.Context, needPosition bool) (engineQuery, error) {
	var q engineQuery
	b := echo.QueryParamsBinder(c)
	if needPosition {
		b = b.MustFloat64("latitude", &q.lat).MustFloat64("longitude", &q.lon)
	}
	b = b.MustString("date", &q.date).String("time", &q.clock)
	if err := b.BindError(); err != nil {
		return q, bindError(err)
	}
	return q, nil
}

// resolve validates the query like an instrument request that ignores time.
func (q engineQuery) resolve() (astro.Observer, astro.Instant, error) {
	req := instrument.NewRequest(q.lat, q.lon, instrument.DefaultScaleM, q.date, q.clock)
	return req.Resolve(instrument.KindSamrat)
}

type siderealResponse struct {
	astro.SiderealTime
	DaysSinceJ2000 float64 `json:"days_since_j2000"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
}

func (s *Server) sidereal(c echo.Context) error {
	q, err := bindEngineQuery(c, true)
	if err != nil {
		return s.fail(c, err)
	}
	obs, inst, err := q.resolve()
	if err != nil {
		return s.fail(c, err)
	}
	st, err := astro.ComputeSiderealTime(obs, inst)
	if err != nil {
		return s.fail(c, err)
	}
	return success(c, siderealResponse{
		SiderealTime:   st,
		DaysSinceJ2000: inst.DaysSinceJ2000(),
		Date:           inst.DateString(),
		Time:           inst.ClockString(),
	})
}

type solarResponse struct {
	astro.SolarPosition
	AboveHorizon bool    `json:"above_horizon"`
	MeridianDeg  float64 `json:"standard_meridian_deg"`
}

func (s *Server) solar(c echo.Context) error {
	q, err := bindEngineQuery(c, true)
	if err != nil {
		return s.fail(c, err)
	}
	obs, inst, err := q.resolve()
	if err != nil {
		return s.fail(c, err)
	}
	sun, err := astro.ComputeSolarPositionAt(obs, inst, s.computer.Meridian())
	if err != nil {
		s.metrics.EngineError("solar", errorClass(err))
		return s.fail(c, err)
	}
	return success(c, solarResponse{
		SolarPosition: sun,
		AboveHorizon:  sun.AboveHorizon(),
		MeridianDeg:   s.computer.Meridian(),
	})
}

func (s *Server) zodiac(c echo.Context) error {
	q, err := bindEngineQuery(c, false)
	if err != nil {
		return s.fail(c, err)
	}
	inst, err := astro.ParseInstant(q.date, "")
	if err != nil {
		return s.fail(c, err)
	}
	z, err := astro.ComputeZodiacSign(inst)
	if err != nil {
		s.metrics.EngineError("zodiac", errorClass(err))
		return s.fail(c, err)
	}
	return success(c, z)
}

type magneticResponse struct {
	DeclinationDeg float64 `json:"magnetic_declination_deg"`
	Regional       bool    `json:"regional_model"`
}

func (s *Server) magnetic(c echo.Context) error {
	var lat, lon float64
	err := echo.QueryParamsBinder(c).
		MustFloat64("latitude", &lat).
		MustFloat64("longitude", &lon).
		BindError()
	if err != nil {
		return s.fail(c, bindError(err))
	}
	obs := astro.Observer{LatDeg: lat, LonDeg: lon}
	dec, err := astro.MagneticDeclination(obs)
	if err != nil {
		return s.fail(c, err)
	}
	return success(c, magneticResponse{
		DeclinationDeg: dec,
		Regional:       astro.InRegionalBand(lat, lon),
	})
}

// bindError converts echo binding failures into validation errors.
func bindError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return &astro.ValidationError{Field: be.Field, Message: fmt.Sprint(be.Message)}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return &astro.ValidationError{Field: "body", Message: fmt.Sprint(he.Message)}
	}
	return &astro.ValidationError{Field: "body", Message: err.Error()}
}
