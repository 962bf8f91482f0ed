// Package duration parses vendor call-duration encodings into seconds.
package duration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Convention identifies which vendor duration format applies.
type Convention int

const (
	// Generic accepts MM:SS and HH:MM:SS.
	Generic Convention = iota

	// TrailingZero is the voicespin convention: a three-token value whose
	// last token is literally "00" carries a spurious trailing seconds
	// field and is re-parsed as MM:SS after dropping it. Three-token
	// values with any other last token are real HH:MM:SS. The vendor's
	// own exports are inconsistent here; this matches the latest
	// observed export behavior.
	TrailingZero
)

// String returns the registry name for the convention.
func (c Convention) String() string {
	switch c {
	case TrailingZero:
		return "trailing-zero"
	default:
		return "generic"
	}
}

// ParseConvention maps a registry-file name to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "generic":
		return Generic, nil
	case "trailing-zero", "trailing_zero":
		return TrailingZero, nil
	default:
		return Generic, eris.Errorf("duration: unknown convention %q", s)
	}
}

// ParseSeconds converts a colon-delimited duration string to total
// seconds. Two tokens parse as MM:SS, three as HH:MM:SS, subject to the
// convention's quirks. Empty, absent, or non-numeric input is an error;
// callers recover to zero seconds and record a data-quality event
// rather than abort.
func ParseSeconds(raw string, conv Convention) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, eris.New("duration: empty value")
	}

	parts := strings.Split(s, ":")

	if conv == TrailingZero && len(parts) == 3 && parts[2] == "00" {
		parts = parts[:2]
	}

	switch len(parts) {
	case 2:
		m, sec, err := parsePair(parts[0], parts[1])
		if err != nil {
			return 0, eris.Wrapf(err, "duration: parse %q", raw)
		}
		return m*60 + sec, nil
	case 3:
		h, err := parseToken(parts[0])
		if err != nil {
			return 0, eris.Wrapf(err, "duration: parse %q", raw)
		}
		m, sec, err := parsePair(parts[1], parts[2])
		if err != nil {
			return 0, eris.Wrapf(err, "duration: parse %q", raw)
		}
		return h*3600 + m*60 + sec, nil
	default:
		return 0, eris.Errorf("duration: unexpected format %q", raw)
	}
}

func parsePair(a, b string) (int, int, error) {
	x, err := parseToken(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseToken(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseToken(tok string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, eris.Errorf("non-numeric token %q", tok)
	}
	if n < 0 {
		return 0, eris.Errorf("negative token %q", tok)
	}
	return n, nil
}

// FormatSeconds renders a second count for reports, e.g. "2 h 30 m 0 s".
// Units below the most significant nonzero unit are always shown.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d h %d m %d s", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d m %d s", minutes, seconds)
	default:
		return fmt.Sprintf("%d s", seconds)
	}
}
