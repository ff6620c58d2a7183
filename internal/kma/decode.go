package kma

import (
	"strconv"
	"strings"
)

// LabelUnknown is returned by MapCode for codes missing from a mapping table.
const LabelUnknown = "정보 없음"

// Sentinel values the KMA API uses instead of a numeric precipitation amount.
const (
	sentinelNoPrecip = "강수없음"
	sentinelTrace    = "1mm 미만"
)

// SkyMap maps SKY condition codes to display labels.
var SkyMap = map[string]string{
	"1": "맑음",
	"3": "구름많음",
	"4": "흐림",
}

// PtyMap maps PTY precipitation-type codes to display labels.
var PtyMap = map[string]string{
	"0": "없음",
	"1": "비",
	"2": "비/눈",
	"3": "눈",
	"4": "소나기",
	"5": "빗방울",
	"6": "빗방울/눈날림",
	"7": "눈날림",
}

// DecodeInt converts a raw forecast value to an int. The value is parsed as a
// float first so decimal-formatted integers like "3.0" survive. Empty or
// non-numeric input returns def; malformed upstream data must never abort
// the pipeline.
func DecodeInt(raw string, def int) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(f)
}

// DecodeFloat converts a raw forecast value to a float64. The KMA sentinel
// strings for "no precipitation" and "under 1mm" decode to def, and a
// trailing "mm" unit suffix is stripped before parsing. Non-numeric input
// returns def.
func DecodeFloat(raw string, def float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == sentinelNoPrecip || s == sentinelTrace {
		return def
	}
	s = strings.ReplaceAll(s, "mm", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// MapCode looks up the label for an integer category code. Codes the table
// does not know map to LabelUnknown rather than failing.
func MapCode(table map[string]string, code int) string {
	if label, ok := table[strconv.Itoa(code)]; ok {
		return label
	}
	return LabelUnknown
}
