package sigscan

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/decibelcooper/sigscan/scan"
)

// PValue converts a significance into a one-sided p-value.
func PValue(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// Smallest p-value drawn; log axes cannot show zero.
const minPValue = 1e-300

type PlotOptions struct {
	Title   string
	Unblind bool
	// MaxSigma is the highest n-sigma reference line drawn; 0 means 5.
	MaxSigma int
}

// PValuePlot draws the local p-value versus mass for rec.
func PValuePlot(rec scan.Record, opts PlotOptions) (*hplot.Plot, error) {
	masses := rec.Masses()
	if len(masses) == 0 {
		return nil, errors.New("no significances to plot")
	}
	if opts.MaxSigma <= 0 {
		opts.MaxSigma = 5
	}

	pvals := hbook.NewS2D()
	for _, m := range masses {
		pv := PValue(rec[m])
		if pv < minPValue {
			pv = minPValue
		}
		pvals.Fill(hbook.Point2D{X: float64(m), Y: pv})
	}

	p := hplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "m_H (GeV)"
	p.Y.Label.Text = "Local p0"
	p.X.Tick.Marker = MassTicks{Masses: masses}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	line, err := plotter.NewLine(pvals)
	if err != nil {
		return nil, fmt.Errorf("could not create p-value curve: %w", err)
	}
	line.LineStyle.Color = color.Black
	label := "Observed"
	if !opts.Unblind {
		label = "Expected"
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)

	pts := hplot.NewS2D(pvals)
	pts.GlyphStyle.Shape = draw.CircleGlyph{}
	pts.GlyphStyle.Radius = vg.Points(2)
	p.Add(pts)
	p.Legend.Add(label, line)

	lo, hi := float64(masses[0]), float64(masses[len(masses)-1])
	if lo == hi {
		lo, hi = lo-5, hi+5
	}
	for n := 1; n <= opts.MaxSigma; n++ {
		pv := PValue(float64(n))
		ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: pv}, {X: hi, Y: pv}})
		if err != nil {
			return nil, err
		}
		ref.LineStyle.Color = color.RGBA{R: 255, A: 255}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(ref)

		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: hi, Y: pv}},
			Labels: []string{fmt.Sprintf("%dσ", n)},
		})
		if err != nil {
			return nil, err
		}
		p.Add(lbl)
	}

	return p, nil
}

// PlotName returns the file stem for the p-value plot of one scan.
func PlotName(dir, basename string, unblind bool) string {
	stem := strings.TrimSuffix(filepath.Base(scan.CachePath("", dir, basename, unblind)), ".cbor")
	return "pvalue_" + stem
}

// SavePlot writes p under dir once per format and returns the files written.
func SavePlot(p *hplot.Plot, dir, name string, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, errors.New("no output formats")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, format := range formats {
		out := filepath.Join(dir, name+"."+strings.TrimPrefix(strings.ToLower(format), "."))
		if err := p.Save(6*vg.Inch, 4*vg.Inch, out); err != nil {
			return written, fmt.Errorf("could not save %s: %w", out, err)
		}
		written = append(written, out)
	}
	return written, nil
}
