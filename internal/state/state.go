// Package state provides thread-safe session state for the dial viewer.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/litescript/ls-yantra/internal/instrument"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventInstrument EventType = "INSTRUMENT"
	EventSunrise    EventType = "SUNRISE"
	EventSunset     EventType = "SUNSET"
	EventSignChange EventType = "SIGN_CHANGE"
	EventStarRise   EventType = "STAR_RISE"
	EventStarSet    EventType = "STAR_SET"
)

// Event represents a change between two consecutive readouts.
type Event struct {
	Type       EventType       `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	At         string          `json:"at"` // readout date and time
	Instrument instrument.Kind `json:"instrument"`
	Subject    string          `json:"subject,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

// TimeSeries is a single data point with the readout it came from.
type TimeSeries struct {
	At    string
	Value float64
}

// Manager handles all shared session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	kind    instrument.Kind
	request instrument.Request

	current         instrument.Readout
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration

	history       []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
	now             func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120,
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		kind:            instrument.KindSamrat,
		maxHistoryLen:   maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		now:             time.Now,
	}
}

// Select sets the instrument and request the session evaluates. Switching
// instrument clears the readout history.
func (m *Manager) Select(kind instrument.Kind, req instrument.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind != m.kind {
		m.addEvent(Event{
			Type:       EventInstrument,
			Timestamp:  m.now(),
			Instrument: kind,
			Subject:    kind.Info().Name,
			Detail:     string(m.kind) + " -> " + string(kind),
		})
		m.history = nil
		m.current = nil
	}
	m.kind = kind
	m.request = req
}

// Selection returns the current instrument and request.
func (m *Manager) Selection() (instrument.Kind, instrument.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kind, m.request
}

// Update records the outcome of one computation.
func (m *Manager) Update(r instrument.Readout, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = m.now()
	m.lastError = err
	m.computeDuration = d

	if r == nil {
		return
	}
	if m.current != nil && m.current.Kind() == r.Kind() {
		m.detectEvents(m.current, r)
	}
	m.current = r

	if v, ok := SeriesValue(r); ok {
		h := r.Meta()
		m.history = append(m.history, TimeSeries{At: h.Date + " " + h.Time, Value: v})
		if len(m.history) > m.maxHistoryLen {
			m.history = m.history[1:]
		}
	}
}

// SeriesLabel names the value tracked in the history of kind.
func SeriesLabel(kind instrument.Kind) string {
	switch kind {
	case instrument.KindSamrat:
		return "equation of time (min)"
	case instrument.KindRasivalaya:
		return "solar longitude (°)"
	case instrument.KindDhruva:
		return "local sidereal time (h)"
	default:
		return "solar altitude (°)"
	}
}

// SeriesValue extracts the tracked value of a readout. Readouts with the
// Sun below the horizon have no solar altitude.
func SeriesValue(r instrument.Readout) (float64, bool) {
	switch v := r.(type) {
	case *instrument.SamratReadout:
		return v.EoTMinutes, true
	case *instrument.RasivalayaReadout:
		return v.SolarLongitude, true
	case *instrument.DhruvaReadout:
		return v.LSTHours, true
	case *instrument.RamaReadout:
		if v.Solar.AltDeg != nil {
			return *v.Solar.AltDeg, true
		}
	case *instrument.DigamsaReadout:
		if v.Solar.AltDeg != nil {
			return *v.Solar.AltDeg, true
		}
	}
	return 0, false
}

// detectEvents compares two readouts of the same instrument.
func (m *Manager) detectEvents(prev, next instrument.Readout) {
	base := Event{
		Timestamp:  m.now(),
		At:         next.Meta().Date + " " + next.Meta().Time,
		Instrument: next.Kind(),
	}
	emit := func(t EventType, subject, detail string) {
		e := base
		e.Type, e.Subject, e.Detail = t, subject, detail
		m.addEvent(e)
	}

	switch n := next.(type) {
	case *instrument.RasivalayaReadout:
		p := prev.(*instrument.RasivalayaReadout)
		if p.CurrentZodiacSign != n.CurrentZodiacSign {
			emit(EventSignChange, n.CurrentZodiacSign, p.CurrentZodiacSign+" -> "+n.CurrentZodiacSign)
		}
	case *instrument.RamaReadout:
		p := prev.(*instrument.RamaReadout)
		m.detectSun(p.Solar, n.Solar, emit)
		m.detectStars(names(p.VisibleBodies), names(n.VisibleBodies), emit)
	case *instrument.DigamsaReadout:
		p := prev.(*instrument.DigamsaReadout)
		m.detectSun(p.Solar, n.Solar, emit)
	case *instrument.DhruvaReadout:
		p := prev.(*instrument.DhruvaReadout)
		m.detectStars(names(p.VisibleStars), names(n.VisibleStars), emit)
	}
}

func (m *Manager) detectSun(prev, next instrument.SolarData, emit func(EventType, string, string)) {
	wasUp, isUp := prev.AltDeg != nil, next.AltDeg != nil
	switch {
	case !wasUp && isUp:
		emit(EventSunrise, "Sun", "")
	case wasUp && !isUp:
		emit(EventSunset, "Sun", "")
	}
}

func (m *Manager) detectStars(prev, next map[string]bool, emit func(EventType, string, string)) {
	for _, name := range sortedKeys(next) {
		if !prev[name] {
			emit(EventStarRise, name, "")
		}
	}
	for _, name := range sortedKeys(prev) {
		if !next[name] {
			emit(EventStarSet, name, "")
		}
	}
}

func names(stars []instrument.StarMarker) map[string]bool {
	out := make(map[string]bool, len(stars))
	for _, s := range stars {
		out[s.Name] = true
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Kind            instrument.Kind
	Request         instrument.Request
	Readout         instrument.Readout
	LastCompute     time.Time
	LastError       error
	ComputeDuration time.Duration
	History         []TimeSeries
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]TimeSeries, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		Kind:            m.kind,
		Request:         m.request,
		Readout:         m.current,
		LastCompute:     m.lastCompute,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		History:         hist,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// HasData returns true once a readout has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
