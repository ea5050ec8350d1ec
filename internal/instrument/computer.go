package instrument

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/logging"
)

// Options configures a Computer.
type Options struct {
	// MeridianDeg is the standard-time zone meridian the request clock is
	// read in, degrees east.
	MeridianDeg float64
	// Workers bounds concurrent sample evaluation. <= 0 means GOMAXPROCS.
	Workers int
	Catalog *astro.Catalog
	Logger  *logging.Logger
}

// DefaultOptions returns options for Indian Standard Time and the built-in
// catalog.
func DefaultOptions() Options {
	return Options{
		MeridianDeg: astro.StandardMeridianIST,
		Catalog:     astro.DefaultCatalog(),
	}
}

// Computer evaluates instrument readouts. It is safe for concurrent use.
type Computer struct {
	meridian float64
	workers  int
	catalog  *astro.Catalog
	log      *logging.Logger
}

// NewComputer creates a Computer.
func NewComputer(opts Options) *Computer {
	c := &Computer{
		meridian: opts.MeridianDeg,
		workers:  opts.Workers,
		catalog:  opts.Catalog,
		log:      opts.Logger,
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.catalog == nil {
		c.catalog = astro.DefaultCatalog()
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// Meridian returns the zone meridian in degrees east.
func (c *Computer) Meridian() float64 { return c.meridian }

// Catalog returns the star catalog in use.
func (c *Computer) Catalog() *astro.Catalog { return c.catalog }

// Compute validates req and evaluates the readout of kind.
func (c *Computer) Compute(ctx context.Context, kind Kind, req Request) (Readout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obs, inst, err := req.Resolve(kind)
	if err != nil {
		return nil, err
	}
	scale := req.Scale()

	var r Readout
	switch kind {
	case KindSamrat:
		r, err = c.samrat(obs, inst, scale)
	case KindRasivalaya:
		r, err = c.rasivalaya(ctx, obs, inst, scale)
	case KindDhruva:
		r, err = c.dhruva(obs, inst, scale)
	case KindRama:
		r, err = c.rama(ctx, obs, inst, scale)
	case KindDigamsa:
		r, err = c.digamsa(obs, inst, scale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	c.log.Debug("computed %s for %.4f,%.4f at %s %s", kind, obs.LatDeg, obs.LonDeg, inst.DateString(), inst.ClockString())
	return r, nil
}

// solar returns the Sun's position in the configured zone.
func (c *Computer) solar(obs astro.Observer, inst astro.Instant) (astro.SolarPosition, error) {
	return astro.ComputeSolarPositionAt(obs, inst, c.meridian)
}

// sampleParallel evaluates fn for i in [0, n) on up to workers goroutines.
// Results are stored by index, so the output order never depends on
// scheduling. The first error cancels the remaining samples.
func sampleParallel[T any](ctx context.Context, workers, n int, fn func(i int) (T, error)) ([]T, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]T, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := fn(i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// linspace returns n evenly spaced values from start to end inclusive.
func linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}
