package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/sigscan/scan"
)

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "significances", "ws_hh.cbor")
	require.NoError(t, scan.WriteCache(path, &scan.Snapshot{
		Directory:     "ws",
		Basename:      "hh",
		Layout:        "default",
		Significances: scan.Record{120: 2, 125: 3},
		Missing:       []scan.MassPoint{130},
	}))

	var buf bytes.Buffer
	require.NoError(t, dump(&buf, path))

	out := buf.String()
	assert.Contains(t, out, path)
	assert.Contains(t, out, "basename:  hh")
	assert.Contains(t, out, "missing:   [130]")
	assert.Contains(t, out, "125")
	assert.NotContains(t, out, "created:")
}

func TestDumpMissingFile(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, dump(&buf, filepath.Join(t.TempDir(), "nope.cbor")))
}

func TestSigdumpCommandWorkspaceDir(t *testing.T) {
	t.Setenv("SIGSCAN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cache := t.TempDir()
	ws := filepath.Join(t.TempDir(), "combo")
	require.NoError(t, scan.WriteCache(scan.CachePath(cache, ws, "lephad", true), &scan.Snapshot{
		Directory:     ws,
		Basename:      "lephad",
		Layout:        "default",
		Unblind:       true,
		Significances: scan.Record{120: 2},
	}))

	var buf bytes.Buffer
	args := []string{"sigdump", "--cache-dir", cache, "--basename", "lephad", "--unblind", ws}
	require.NoError(t, newCommand(&buf).Run(context.Background(), args))
	assert.Contains(t, buf.String(), "basename:  lephad")
	assert.Contains(t, buf.String(), "unblind:   true")
}

func TestSigdumpCommandMissingExplicitConfig(t *testing.T) {
	t.Setenv("SIGSCAN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	var buf bytes.Buffer
	args := []string{"sigdump", "--config", filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir()}
	assert.Error(t, newCommand(&buf).Run(context.Background(), args))
}
