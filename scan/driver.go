// Package scan obtains one significance per mass point, either from a
// persisted cache or by evaluating the per-mass workspaces in parallel.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// CacheRoot is the directory holding the significances/ cache.
	CacheRoot string
	// Workers bounds the number of concurrent evaluations; <= 0 runs one
	// per mass point.
	Workers int
	Logger  log.Interface
}

type Request struct {
	Directory    string
	Basename     string
	Masses       []MassPoint
	Force        bool
	FixedLayout  bool
	Unblind      bool
	AllowPartial bool
}

func (r Request) Layout() Layout {
	if r.FixedLayout {
		return FixedLayout
	}
	return DefaultLayout
}

// Report is the outcome of one driver run.
type Report struct {
	Record     Record
	Failures   []*MassError
	CachePath  string
	Recomputed bool
	Written    bool
}

// Err returns nil when every requested mass has a significance.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return fmt.Errorf("%w: %d mass point(s) failed: %w", ErrIncomplete, len(r.Failures), errors.Join(errs...))
}

type Driver struct {
	cfg  Config
	eval Evaluator
}

func New(cfg Config, eval Evaluator) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = log.Log
	}
	return &Driver{cfg: cfg, eval: eval}
}

// Run produces the significance record for req.
//
// An existing cache file is authoritative unless req.Force is set; it is
// never updated in place. A computation round that leaves any mass point
// without a value fails as a whole and persists nothing, unless
// req.AllowPartial is set, in which case the failed masses are recorded as
// missing in the cache.
func (d *Driver) Run(ctx context.Context, req Request) (*Report, error) {
	masses, err := d.validate(req)
	if err != nil {
		return nil, err
	}

	locs := LocateAll(req.Directory, req.Basename, masses, req.Layout())

	path := CachePath(d.cfg.CacheRoot, req.Directory, req.Basename, req.Unblind)
	logger := d.cfg.Logger.WithFields(log.Fields{
		"directory": req.Directory,
		"basename":  req.Basename,
	})
	logger.Infof("masses: %s", formatMasses(masses))
	logger.Infof("cache: %s", path)

	rep := &Report{CachePath: path}

	if !req.Force {
		snap, err := ReadCache(path)
		switch {
		case err == nil:
			logger.Info("using cached significances; not recomputing")
			rep.Record, rep.Failures = snap.Select(masses)
			return d.conclude(logger, rep, req)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no cached significances")
		default:
			return nil, fmt.Errorf("%w (rerun with force to rebuild it)", err)
		}
	}

	logger.Infof("recomputing significances for %d mass point(s)", len(locs))
	start := time.Now()
	rep.Recomputed = true
	rep.Record = make(Record, len(locs))
	for _, res := range d.evaluate(ctx, locs) {
		if res.err != nil {
			rep.Failures = append(rep.Failures, res.err)
			continue
		}
		rep.Record[res.mass] = res.value
	}
	logger.WithDuration(time.Since(start)).Infof("evaluated %d of %d mass point(s)", len(rep.Record), len(locs))

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if len(rep.Failures) > 0 && !req.AllowPartial {
		return d.conclude(logger, rep, req)
	}

	snap := &Snapshot{
		Directory:     req.Directory,
		Basename:      req.Basename,
		Layout:        req.Layout().String(),
		Unblind:       req.Unblind,
		Significances: rep.Record,
		Created:       time.Now().UTC(),
	}
	for _, f := range rep.Failures {
		snap.Missing = append(snap.Missing, f.Mass)
	}
	if err := WriteCache(path, snap); err != nil {
		return rep, err
	}
	rep.Written = true
	logger.Infof("wrote %s", path)

	return d.conclude(logger, rep, req)
}

// validate checks req before any work starts and returns its masses without
// duplicates. LocateAll derives one file and one workspace name per mass, so
// a non-empty mass list is also a non-empty list of both.
func (d *Driver) validate(req Request) ([]MassPoint, error) {
	if len(req.Masses) == 0 {
		return nil, configErrorf("no mass points requested")
	}
	if req.Directory == "" {
		return nil, configErrorf("no workspace directory")
	}
	if req.Basename == "" {
		return nil, configErrorf("no workspace basename")
	}
	if d.cfg.CacheRoot == "" {
		return nil, configErrorf("no cache directory")
	}
	if d.eval == nil {
		return nil, configErrorf("no evaluator")
	}

	seen := make(map[MassPoint]bool, len(req.Masses))
	masses := make([]MassPoint, 0, len(req.Masses))
	for _, m := range req.Masses {
		if seen[m] {
			continue
		}
		seen[m] = true
		masses = append(masses, m)
	}
	return masses, nil
}

func (d *Driver) conclude(logger log.Interface, rep *Report, req Request) (*Report, error) {
	for _, f := range rep.Failures {
		logger.WithError(f.Err).WithField("mass", int(f.Mass)).Warnf("no significance (%s)", f.Op)
	}
	if len(rep.Failures) > 0 && !req.AllowPartial {
		return rep, rep.Err()
	}
	return rep, nil
}

type result struct {
	mass  MassPoint
	value float64
	err   *MassError
}

func (d *Driver) evaluate(ctx context.Context, locs []Locator) []result {
	results := make([]result, len(locs))

	var g errgroup.Group
	if d.cfg.Workers > 0 {
		g.SetLimit(d.cfg.Workers)
	}
	for i, loc := range locs {
		g.Go(func() error {
			results[i] = d.evaluateOne(ctx, loc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Driver) evaluateOne(ctx context.Context, loc Locator) (res result) {
	res.mass = loc.Mass
	defer func() {
		if r := recover(); r != nil {
			res.err = &MassError{Mass: loc.Mass, Op: "run", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.err = &MassError{Mass: loc.Mass, Op: "run", Err: err}
		return res
	}

	v, err := d.eval.Evaluate(ctx, loc)
	if err != nil {
		var me *MassError
		if !errors.As(err, &me) {
			me = &MassError{Mass: loc.Mass, Op: "run", Err: err}
		}
		res.err = me
		return res
	}
	res.value = v
	return res
}

func formatMasses(masses []MassPoint) string {
	strs := make([]string, len(masses))
	for i, m := range masses {
		strs[i] = strconv.Itoa(int(m))
	}
	return strings.Join(strs, ",")
}
