package scan

import (
	"fmt"
	"path/filepath"
)

// MassPoint is a test mass in GeV.
type MassPoint int

// Layout selects how workspace files are named on disk.
type Layout int

const (
	// DefaultLayout: <dir>/<basename>_<mass>.root holding workspace_<basename>_<mass>.
	DefaultLayout Layout = iota
	// FixedLayout: <dir>/<basename>_<mass>/ws_measurement_<basename>_<mass>.root holding "combined".
	FixedLayout
)

func (l Layout) String() string {
	switch l {
	case DefaultLayout:
		return "default"
	case FixedLayout:
		return "fixed"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Locator names the backing file and the workspace object for one mass point.
type Locator struct {
	Mass      MassPoint
	File      string
	Workspace string
}

func (l Locator) String() string {
	return l.File + ":" + l.Workspace
}

func Locate(dir, basename string, mass MassPoint, layout Layout) Locator {
	name := fmt.Sprintf("%s_%d", basename, mass)
	if layout == FixedLayout {
		return Locator{
			Mass:      mass,
			File:      filepath.Join(dir, name, "ws_measurement_"+name+".root"),
			Workspace: "combined",
		}
	}
	return Locator{
		Mass:      mass,
		File:      filepath.Join(dir, name+".root"),
		Workspace: "workspace_" + name,
	}
}

// LocateAll derives one Locator per mass, in input order.
func LocateAll(dir, basename string, masses []MassPoint, layout Layout) []Locator {
	locs := make([]Locator, 0, len(masses))
	for _, m := range masses {
		locs = append(locs, Locate(dir, basename, m, layout))
	}
	return locs
}
