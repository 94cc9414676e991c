package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"
)

func graph(ys ...float64) rhist.Graph {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return rhist.NewGraphFrom(hbook.NewS2DFrom(xs, ys))
}

// writeCurve stores a significance curve directly under name.
func writeCurve(t *testing.T, path, name string, ys ...float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := groot.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Put(name, graph(ys...)))
	require.NoError(t, f.Close())
}

// writeHistogram stores a one-bin-per-unit histogram whose bin i holds ws[i].
func writeHistogram(t *testing.T, path, name string, ws ...float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	h := hbook.NewH1D(len(ws), 0, float64(len(ws)))
	for i, w := range ws {
		h.Fill(float64(i)+0.5, w)
	}

	f, err := groot.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Put(name, rootcnv.FromH1D(h)))
	require.NoError(t, f.Close())
}

// writeWorkspaceDir stores curves inside a directory called name.
func writeWorkspaceDir(t *testing.T, path, name string, curves map[string][]float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := groot.Create(path)
	require.NoError(t, err)
	dir, err := riofs.Dir(f).Mkdir(name)
	require.NoError(t, err)
	for k, ys := range curves {
		require.NoError(t, dir.Put(k, graph(ys...)))
	}
	require.NoError(t, f.Close())
}

// writeScan lays out one default-layout file per mass under dir.
func writeScan(t *testing.T, dir, basename string, sig map[MassPoint]float64) {
	t.Helper()
	for m, v := range sig {
		loc := Locate(dir, basename, m, DefaultLayout)
		writeCurve(t, loc.File, loc.Workspace, 0, v, 0)
	}
}

func testLogger() (*log.Logger, *memory.Handler) {
	h := memory.New()
	return &log.Logger{Handler: h, Level: log.DebugLevel}, h
}

func messages(h *memory.Handler) []string {
	var msgs []string
	for _, e := range h.Entries {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
