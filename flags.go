package sigscan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decibelcooper/sigscan/scan"
)

// AllMasses returns the standard scan grid, 100 to 150 GeV in 5 GeV steps.
func AllMasses() []scan.MassPoint {
	var ms []scan.MassPoint
	for m := 100; m <= 150; m += 5 {
		ms = append(ms, scan.MassPoint(m))
	}
	return ms
}

// MassList is a flag value taking "all" or comma-separated masses. It may
// be given more than once; the first use replaces the default list.
type MassList struct {
	Masses  []scan.MassPoint
	beenSet bool
}

func (f *MassList) Set(valueStr string) error {
	if !f.beenSet {
		f.beenSet = true
		f.Masses = nil
	}

	for _, tok := range strings.Split(valueStr, ",") {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
			continue
		case strings.EqualFold(tok, "all"):
			f.Masses = append(f.Masses, AllMasses()...)
			continue
		}

		m, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("invalid mass point %q", tok)
		}
		if m <= 0 {
			return fmt.Errorf("mass point must be positive, got %d", m)
		}
		f.Masses = append(f.Masses, scan.MassPoint(m))
	}
	return nil
}

func (f *MassList) String() string {
	strs := make([]string, len(f.Masses))
	for i, m := range f.Masses {
		strs[i] = strconv.Itoa(int(m))
	}
	return strings.Join(strs, ",")
}

func (f *MassList) Get() any {
	return f.Masses
}
