package scan

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/apex/log"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// Evaluator computes the significance of one mass point.
type Evaluator interface {
	Evaluate(ctx context.Context, loc Locator) (float64, error)
}

type EvaluatorFunc func(ctx context.Context, loc Locator) (float64, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, loc Locator) (float64, error) {
	return f(ctx, loc)
}

// The significance is the second element of the workspace's curve.
const significanceIndex = 1

// Names of the curve objects looked up inside a workspace directory.
const (
	CurveExpected = "significance_expected"
	CurveObserved = "significance_observed"
	CurveDefault  = "significance"
)

// WorkspaceEvaluator reads significance curves out of ROOT files.
//
// The workspace object is either a directory holding the curve (see the
// Curve* names) or the curve itself. A curve is a TGraph, whose elements
// are the Y values of its points, or a TH1, whose elements follow the ROOT
// bin layout with the underflow at index 0.
type WorkspaceEvaluator struct {
	Unblind bool
	Logger  log.Interface
}

func (w *WorkspaceEvaluator) Evaluate(ctx context.Context, loc Locator) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &MassError{Mass: loc.Mass, Op: "run", Err: err}
	}

	if _, err := os.Stat(loc.File); err != nil {
		return 0, &MassError{Mass: loc.Mass, Op: "open", Err: err}
	}
	f, err := groot.Open(loc.File)
	if err != nil {
		return 0, &MassError{Mass: loc.Mass, Op: "open", Err: err}
	}
	defer f.Close()

	obj, err := f.Get(loc.Workspace)
	if err != nil {
		w.logger().WithFields(log.Fields{
			"mass": int(loc.Mass),
			"file": loc.File,
		}).Warnf("workspace %q not found; available: %s", loc.Workspace, strings.Join(KeyNames(f), ", "))
		return 0, &MassError{
			Mass: loc.Mass,
			Op:   "lookup",
			Err:  fmt.Errorf("%w: %q in %s", ErrWorkspaceNotFound, loc.Workspace, loc.File),
		}
	}

	curve, err := w.curve(obj)
	if err != nil {
		return 0, &MassError{Mass: loc.Mass, Op: "extract", Err: err}
	}
	if len(curve) <= significanceIndex {
		return 0, &MassError{
			Mass: loc.Mass,
			Op:   "extract",
			Err:  fmt.Errorf("%w: %d elements", ErrBadCurve, len(curve)),
		}
	}
	v := curve[significanceIndex]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MassError{Mass: loc.Mass, Op: "extract", Err: fmt.Errorf("%w: value %v", ErrBadCurve, v)}
	}

	w.logger().WithFields(log.Fields{"mass": int(loc.Mass), "significance": v}).Debug("evaluated workspace")
	return v, nil
}

func (w *WorkspaceEvaluator) curveNames() []string {
	if w.Unblind {
		return []string{CurveObserved, CurveDefault}
	}
	return []string{CurveExpected, CurveDefault}
}

func (w *WorkspaceEvaluator) curve(obj root.Object) ([]float64, error) {
	dir, ok := obj.(riofs.Directory)
	if !ok {
		return curveOf(obj)
	}

	names := w.curveNames()
	for _, name := range names {
		o, err := dir.Get(name)
		if err != nil {
			continue
		}
		return curveOf(o)
	}
	return nil, fmt.Errorf("%w: workspace has none of %s (keys: %s)",
		ErrBadCurve, strings.Join(names, ", "), strings.Join(KeyNames(dir), ", "))
}

func curveOf(obj root.Object) ([]float64, error) {
	switch o := obj.(type) {
	case rhist.Graph:
		ys := make([]float64, o.Len())
		for i := range ys {
			_, ys[i] = o.XY(i)
		}
		return ys, nil

	case rhist.H1:
		h := rootcnv.H1D(o)
		vs := make([]float64, 0, h.Len()+2)
		vs = append(vs, h.Binning.Outflows[0].SumW())
		for i := 0; i < h.Len(); i++ {
			vs = append(vs, h.Value(i))
		}
		vs = append(vs, h.Binning.Outflows[1].SumW())
		return vs, nil
	}
	return nil, fmt.Errorf("%w: object of class %s", ErrBadCurve, obj.Class())
}

// KeyNames lists the names of the objects stored in dir.
func KeyNames(dir riofs.Directory) []string {
	keys := dir.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name())
	}
	return names
}

func (w *WorkspaceEvaluator) logger() log.Interface {
	if w.Logger == nil {
		return log.Log
	}
	return w.Logger
}
