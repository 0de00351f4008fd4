package chatlog

import (
	"regexp"
	"strings"
	"time"
)

// Header grammar: [DD-Mon-YY HH:MM AM/PM] Author: text
// The bracket payload is validated separately against the timestamp layouts,
// so a bracketed line with a bad date degrades to a continuation.
var headerRE = regexp.MustCompile(`^\[([^\[\]]+)\]\s*(.+?):\s*(.*)$`)

// Timestamp layouts accepted inside the brackets. The grammar is fixed to
// English month abbreviations and AM/PM markers; exports in another locale
// will fail to parse and their header lines fold into continuations.
var stampLayouts = []string{
	"02-Jan-06 03:04 PM",
	"2-Jan-06 3:04 PM",
}

// System-message markers, e.g. "**alice pinned a message**". Discord-style
// exports render these as whole-line bold.
var systemRE = regexp.MustCompile(`^\*\*.+\*\*$`)

// Classify decides whether one raw line starts a new message, continues the
// previous one, or is noise. It never fails: anything that is not a valid
// header and not on the denylist is presumed to be a wrapped continuation.
func Classify(line string) ClassifiedLine {
	trimmed := strings.TrimSpace(line)

	if m := headerRE.FindStringSubmatch(trimmed); m != nil {
		if ts, ok := parseStamp(m[1]); ok {
			return ClassifiedLine{
				Kind:   KindHeader,
				Stamp:  ts,
				Author: strings.TrimSpace(m[2]),
				Text:   m[3],
			}
		}
	}

	if reason := noiseReason(trimmed); reason != NoiseNone {
		return ClassifiedLine{Kind: KindNoise, Noise: reason}
	}

	return ClassifiedLine{Kind: KindContinuation, Text: trimmed}
}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range stampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// noiseReason applies the denylist to a trimmed line (or body segment).
// Returns NoiseNone for lines that carry real content.
func noiseReason(s string) NoiseReason {
	if s == "" {
		return NoiseEmpty
	}
	if strings.HasPrefix(s, "!") || strings.HasPrefix(s, "/") {
		return NoiseBotCommand
	}
	if systemRE.MatchString(s) {
		return NoiseSystem
	}
	return NoiseNone
}
