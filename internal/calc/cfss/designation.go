package cfss

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const doubledPrefix = "2x"

var (
	studDepthRe  = regexp.MustCompile(`(\d+)S`)
	trailingMil  = regexp.MustCompile(`(\d{2})$`)
	slottedTrack = regexp.MustCompile(`(?i)\s*TROU[ÉE]E$`)
)

// StudDesignation is a parsed stud name such as "600S162-54" or "2x600S162-54".
type StudDesignation struct {
	Raw          string  `json:"raw"`
	Key          string  `json:"key"`
	Base         string  `json:"base"`
	DepthIn      float64 `json:"depth_in"`
	ThicknessMil int     `json:"thickness_mil"`
	Doubled      bool    `json:"doubled"`
}

// TrackDesignation is a parsed track name. Slotted tracks carry a TROUÉE suffix
// which is not part of the lookup key.
type TrackDesignation struct {
	Raw          string `json:"raw"`
	Key          string `json:"key"`
	ThicknessMil int    `json:"thickness_mil"`
	Slotted      bool   `json:"slotted"`
}

// StudKey normalizes a designation into the form used by the stud table:
// upper case, trimmed, with a lower case "2x" prefix for doubled sections.
func StudKey(s string) (key string, doubled bool) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && strings.EqualFold(s[:2], doubledPrefix) {
		return doubledPrefix + strings.ToUpper(strings.TrimSpace(s[2:])), true
	}
	return strings.ToUpper(s), false
}

func ParseStud(s string) (StudDesignation, error) {
	key, doubled := StudKey(s)
	d := StudDesignation{Raw: s, Key: key, Base: strings.TrimPrefix(key, doubledPrefix), Doubled: doubled}

	m := studDepthRe.FindStringSubmatch(d.Base)
	if m == nil {
		return d, fmt.Errorf("stud %q: no depth before S", s)
	}
	d.DepthIn = depthFromDigits(m[1])

	mil, ok := milFromSuffix(d.Base)
	if !ok {
		return d, fmt.Errorf("stud %q: no trailing thickness", s)
	}
	d.ThicknessMil = mil
	return d, nil
}

// ParseTrack never fails; a designation without a thickness suffix resolves
// to 0 mil, which has no capacity. The suffix is matched in NFC form so a
// decomposed É (E + U+0301) is still recognized.
func ParseTrack(s string) TrackDesignation {
	t := TrackDesignation{Raw: s}
	key := norm.NFC.String(strings.TrimSpace(s))
	if loc := slottedTrack.FindStringIndex(key); loc != nil {
		key = key[:loc[0]]
		t.Slotted = true
	}
	t.Key = strings.ToUpper(strings.TrimSpace(key))
	t.ThicknessMil, _ = milFromSuffix(t.Key)
	return t
}

func depthFromDigits(digits string) float64 {
	if digits == "362" {
		return 3.625
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	if n < 100 {
		return float64(n)
	}
	return float64(n) / 100
}

func milFromSuffix(s string) (int, bool) {
	m := trailingMil.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
