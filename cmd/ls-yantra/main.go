// Command ls-yantra computes the readouts of the Jantar Mantar instruments
// as a terminal UI, a headless printer or an HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/cache"
	"github.com/litescript/ls-yantra/internal/config"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/logging"
	"github.com/litescript/ls-yantra/internal/metrics"
	"github.com/litescript/ls-yantra/internal/server"
	"github.com/litescript/ls-yantra/internal/state"
	"github.com/litescript/ls-yantra/internal/ui"
	"github.com/litescript/ls-yantra/internal/version"
)

// CLI flags for headless mode
var (
	outputFormat  string
	watchInterval time.Duration
	eventsMode    bool
)

const (
	minWatch = 1 * time.Second
	maxWatch = 1 * time.Hour
)

// selection is what the user asked to evaluate.
type selection struct {
	kind     instrument.Kind
	observer ui.Observer
	date     string
	clock    string
}

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to a YAML config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	serve := flag.Bool("serve", false, "Run the HTTP service")
	addr := flag.String("addr", "", "Listen address for -serve; overrides config")
	kindName := flag.String("kind", "samrat", "Instrument: samrat, rasivalaya, dhruva, rama, digamsa")
	lat := flag.Float64("lat", 28.6139, "Observer latitude in degrees")
	lon := flag.Float64("lon", 77.2090, "Observer longitude in degrees east")
	scale := flag.Float64("scale", instrument.DefaultScaleM, "Instrument scale in metres")
	date := flag.String("date", "", "Date YYYY-MM-DD (default: today in the zone)")
	clock := flag.String("time", "", "Zone time HH:MM (default: now)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.StringVar(&outputFormat, "format", "", "Print the readout as json or text instead of the TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.BoolVar(&eventsMode, "events", false, "Print session events in headless watch mode")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Service, version.Version)
		return
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// Set up logging
	logger := logging.NewWithFormat(logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
	astro.SetLogger(logger)

	kind, err := instrument.ParseKind(*kindName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if outputFormat != "" && outputFormat != "json" && outputFormat != "text" {
		fmt.Fprintf(os.Stderr, "Error: -format must be json or text, got %q\n", outputFormat)
		os.Exit(2)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	engineOpts := instrument.DefaultOptions()
	engineOpts.MeridianDeg = cfg.Engine.StandardMeridian
	engineOpts.Workers = cfg.Engine.Workers
	engineOpts.Logger = logger
	computer := instrument.NewComputer(engineOpts)

	if *serve {
		if err := runServer(ctx, cfg, computer, logger); err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		return
	}

	// Initialize session state
	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.Live.Interval
	stateMgr := state.NewManager(stateCfg)

	sel := selection{
		kind:     kind,
		observer: ui.Observer{Latitude: *lat, Longitude: *lon, ScaleM: *scale},
		date:     *date,
		clock:    *clock,
	}

	// Headless mode: no TUI
	headless := outputFormat != "" || watchInterval > 0 || !term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		if outputFormat == "" {
			outputFormat = "text"
		}
		runHeadless(ctx, computer, stateMgr, sel)
		return
	}

	start, err := startTime(sel.date, sel.clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Logs would tear the alternate screen.
	logger.SetOutput(io.Discard)

	model := ui.New(stateMgr, computer, sel.observer, sel.kind, start)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// startTime returns the fixed zone wall time for the TUI, or zero to
// follow the clock when no date is given.
func startTime(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	if clock == "" {
		clock = "12:00"
	}
	inst, err := astro.ParseInstant(date, clock)
	if err != nil {
		return time.Time{}, err
	}
	return inst.Time(), nil
}

func runServer(ctx context.Context, cfg *config.Config, computer *instrument.Computer, logger *logging.Logger) error {
	redisOpts := []cache.RedisOption{
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
		cache.WithRedisPingTimeout(cfg.Cache.Redis.PingTimeout),
	}
	readouts, err := cache.New(cfg.Cache.Backend, redisOpts,
		cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		cache.WithMemoryCleanup(cfg.Cache.CleanupInterval))
	if err != nil {
		return fmt.Errorf("readout cache: %w", err)
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(metrics.Default()),
		server.WithCORS(cfg.Server.CORSOrigins...),
		server.WithLiveInterval(cfg.Live.Interval),
		server.WithMetricsPath(cfg.Server.MetricsPath),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if readouts != nil {
		defer readouts.Close()
		opts = append(opts, server.WithCache(readouts, cfg.Cache.TTL))
		logger.Info("readout cache: %s, ttl %v", cfg.Cache.Backend, cfg.Cache.TTL)
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, server.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	logger.Info("%s %s starting, zone meridian %.2f°", version.Service, version.Version, computer.Meridian())
	return server.New(computer, opts...).Run(ctx, cfg.Server.Addr)
}

// request builds the request for sel, using the zone clock for anything
// left out.
func (sel selection) request(now time.Time, meridian float64) instrument.Request {
	zone := instrument.ZoneRequest(now, meridian, sel.observer.Latitude, sel.observer.Longitude, sel.observer.ScaleM)
	if sel.date != "" {
		zone.Date = sel.date
		zone.Time = sel.clock
	} else if sel.clock != "" {
		zone.Time = sel.clock
	}
	return zone
}

// runHeadless prints readouts without starting the TUI.
func runHeadless(ctx context.Context, computer *instrument.Computer, stateMgr *state.Manager, sel selection) {
	var lastEvent time.Time

	outputOnce := func() error {
		req := sel.request(time.Now(), computer.Meridian())
		stateMgr.Select(sel.kind, req)

		start := time.Now()
		r, err := computer.Compute(ctx, sel.kind, req)
		stateMgr.Update(r, time.Since(start), err)
		if err != nil {
			return describe(err)
		}

		switch outputFormat {
		case "json":
			if err := instrument.WriteJSON(os.Stdout, r); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		default:
			if err := instrument.WriteText(os.Stdout, r); err != nil {
				return fmt.Errorf("write text to stdout: %w", err)
			}
		}

		// Events log
		if eventsMode {
			var fresh []state.Event
			fresh, lastEvent = newEvents(stateMgr, lastEvent)
			for _, e := range fresh {
				fmt.Printf("* %s %-11s %s %s\n", e.At, e.Type, e.Subject, e.Detail)
			}
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Validate watch interval
	if watchInterval < minWatch {
		watchInterval = minWatch
	} else if watchInterval > maxWatch {
		watchInterval = maxWatch
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if outputFormat == "text" {
				fmt.Println() // Blank line between outputs
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// maxPrintedEvents bounds the events printed after one headless readout.
const maxPrintedEvents = 20

// newEvents returns the recent events recorded after since, oldest first,
// and the timestamp to pass on the next call.
func newEvents(mgr *state.Manager, since time.Time) ([]state.Event, time.Time) {
	var out []state.Event
	for _, e := range mgr.RecentEvents(maxPrintedEvents) {
		if e.Timestamp.After(since) {
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		since = out[len(out)-1].Timestamp
	}
	return out, since
}

// describe adds the offending field to input errors.
func describe(err error) error {
	if errors.Is(err, astro.ErrValidation) || errors.Is(err, astro.ErrFormat) {
		if field := astro.FieldOf(err); field != "" {
			return fmt.Errorf("-%s: %w", flagFor(field), err)
		}
	}
	return err
}

var fieldFlags = map[string]string{
	"latitude":  "lat",
	"longitude": "lon",
	"scale_m":   "scale",
	"date":      "date",
	"time":      "time",
}

func flagFor(field string) string {
	if f, ok := fieldFlags[field]; ok {
		return f
	}
	return field
}
