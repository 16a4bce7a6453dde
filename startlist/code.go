package startlist

import "strings"

// FormatEventCode builds the composite event code used everywhere
// downstream to group entries: the event number zero-padded to three
// digits, a dash, the round token as-is, and the heat zero-padded to two
// digits. For Lynx sources only; OMEGA files carry the code pre-built.
func FormatEventCode(event, round, heat string) string {
	return padLeft(event, 3) + "-" + round + padLeft(heat, 2)
}

// SplitEventCode is the inverse of FormatEventCode: the event number is
// everything before the dash, the heat is the last two characters, the
// round is whatever sits between. Codes shorter than that come back with
// empty round/heat rather than an error; they are opaque strings from
// the caller's point of view.
func SplitEventCode(code string) (event, round, heat string) {
	event, rest, ok := strings.Cut(code, "-")
	if !ok {
		return code, "", ""
	}
	if len(rest) < 2 {
		return event, "", rest
	}
	return event, rest[:len(rest)-2], rest[len(rest)-2:]
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
