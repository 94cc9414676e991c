package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record maps a mass point to its significance.
type Record map[MassPoint]float64

// Masses returns the record's mass points in ascending order.
func (r Record) Masses() []MassPoint {
	ms := make([]MassPoint, 0, len(r))
	for m := range r {
		ms = append(ms, m)
	}
	slices.Sort(ms)
	return ms
}

// Snapshot is the persisted form of one scan round.
type Snapshot struct {
	Directory     string      `cbor:"directory"`
	Basename      string      `cbor:"basename"`
	Layout        string      `cbor:"layout"`
	Unblind       bool        `cbor:"unblind"`
	Significances Record      `cbor:"significances"`
	Missing       []MassPoint `cbor:"missing,omitempty"`
	Created       time.Time   `cbor:"created"`
}

// Select returns the significances for masses. Masses the snapshot has no
// value for come back as failures wrapping ErrNotCached.
func (s *Snapshot) Select(masses []MassPoint) (Record, []*MassError) {
	var (
		rec   = make(Record, len(masses))
		fails []*MassError
	)
	for _, m := range masses {
		v, ok := s.Significances[m]
		switch {
		case ok:
			rec[m] = v
		case slices.Contains(s.Missing, m):
			fails = append(fails, &MassError{Mass: m, Op: "cache", Err: fmt.Errorf("%w: failed when the cache was built", ErrNotCached)})
		default:
			fails = append(fails, &MassError{Mass: m, Op: "cache", Err: ErrNotCached})
		}
	}
	return rec, fails
}

// CachePath returns <root>/significances/<dir>_<basename>.cbor, with the
// separators of dir flattened to underscores and a leading one dropped.
// Unblinded results live in a separate file.
func CachePath(root, dir, basename string, unblind bool) string {
	flat := strings.ReplaceAll(filepath.ToSlash(filepath.Clean(dir)), "/", "_")
	flat = strings.TrimPrefix(flat, "_")
	name := basename
	if flat != "" {
		name = flat + "_" + basename
	}
	if unblind {
		name += "_unblind"
	}
	return filepath.Join(root, "significances", name+".cbor")
}

var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// WriteCache replaces the file at path with s. The previous file, if any,
// stays intact until the new one is complete.
func WriteCache(path string, s *Snapshot) error {
	raw, err := encMode.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode significances: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sig-*")
	if err != nil {
		return fmt.Errorf("could not create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not install cache file: %w", err)
	}
	return nil
}

func ReadCache(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := cbor.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	if s.Significances == nil {
		s.Significances = Record{}
	}
	return &s, nil
}
