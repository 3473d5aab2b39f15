// Package crisis pattern-matches user input for self-harm and harm-to-others
// signals. It is a best-effort safety net: missed phrasings are expected, and
// a false positive only blocks one message, which is the safer direction.
package crisis

import (
	"regexp"
	"strings"
)

// Signal is the transient result of scanning one input string.
type Signal string

const (
	SignalSelfHarm   Signal = "self_harm"
	SignalHarmOthers Signal = "harm_others"
	SignalNone       Signal = "none"
)

// pattern is one (family, language, regex) tuple. Adding a language or a
// phrasing is a data change here, not a code change.
type pattern struct {
	family   Signal
	language string
	re       *regexp.Regexp
}

// Families are ordered: every self-harm pattern is checked before any
// harm-to-others pattern, and the first matching family wins.
var defaultPatterns = []pattern{
	// Self-harm, English
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\b(kill|end|harm|hurt)\s*(my)?self\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bsuicid(e|al)\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bwant\s+to\s+die\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bdon'?t\s+want\s+to\s+(live|be\s+alive|exist)\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bend\s+(my\s+)?life\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bbetter\s+off\s+dead\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bno\s+reason\s+to\s+live\b`)},
	{SignalSelfHarm, "en", regexp.MustCompile(`(?i)\bcut(ting)?\s+myself\b`)},

	// Self-harm, Danish
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\b(slå|tage)\s+(mig\s+)?ihjel\b`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bselvmord\b`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bvil\s+dø`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bvil\s+ikke\s+leve\b`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bgøre\s+en\s+ende\s+på\b`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bskade\s+mig\s+selv\b`)},
	{SignalSelfHarm, "da", regexp.MustCompile(`(?i)\bskære\s+(i\s+)?mig\s+selv\b`)},

	// Self-harm, Swedish
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\b(döda|ta\s+livet\s+av)\s+mig\b`)},
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\bsjälvmord\b`)},
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\bvill\s+dö`)},
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\bvill\s+inte\s+leva\b`)},
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\bskada\s+mig\s+själv\b`)},
	{SignalSelfHarm, "sv", regexp.MustCompile(`(?i)\bskära\s+mig\b`)},

	// Self-harm, Norwegian
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\b(drepe|ta\s+livet\s+av)\s+meg\b`)},
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\bselvmord\b`)},
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\bvil\s+dø`)},
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\bvil\s+ikke\s+leve\b`)},
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\bskade\s+meg\s+selv\b`)},
	{SignalSelfHarm, "no", regexp.MustCompile(`(?i)\bkutte\s+meg\b`)},

	// Self-harm, German
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\b(mich\s+)?(umbringen|töten)\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bselbstmord\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bsuizid\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bsterben\s+wollen\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bnicht\s+(mehr\s+)?leben\s+wollen\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bmich\s+selbst\s+verletzen\b`)},
	{SignalSelfHarm, "de", regexp.MustCompile(`(?i)\bmich\s+ritzen\b`)},

	// Harm to others, English
	{SignalHarmOthers, "en", regexp.MustCompile(`(?i)\b(kill|murder|hurt|harm)\s+(someone|them|him|her|people|my\s+(family|wife|husband|children|kids|partner))\b`)},
	{SignalHarmOthers, "en", regexp.MustCompile(`(?i)\bwant\s+to\s+(kill|hurt|harm)\b`)},
	{SignalHarmOthers, "en", regexp.MustCompile(`(?i)\bgoing\s+to\s+(kill|hurt|harm)\b`)},

	// Harm to others, Danish
	{SignalHarmOthers, "da", regexp.MustCompile(`(?i)\b(slå|dræbe)\s+(nogen|dem|ham|hende|min|mit|mine)\b`)},
	{SignalHarmOthers, "da", regexp.MustCompile(`(?i)\bvil\s+(slå|dræbe|skade)\b`)},

	// Harm to others, Swedish
	{SignalHarmOthers, "sv", regexp.MustCompile(`(?i)\b(döda|skada)\s+(någon|dem|honom|henne|min|mitt|mina)\b`)},
	{SignalHarmOthers, "sv", regexp.MustCompile(`(?i)\bvill\s+(döda|skada)\b`)},

	// Harm to others, Norwegian
	{SignalHarmOthers, "no", regexp.MustCompile(`(?i)\b(drepe|skade)\s+(noen|dem|ham|henne|min|mitt|mine)\b`)},
	{SignalHarmOthers, "no", regexp.MustCompile(`(?i)\bvil\s+(drepe|skade)\b`)},

	// Harm to others, German
	{SignalHarmOthers, "de", regexp.MustCompile(`(?i)\b(jemanden|sie|ihn|meine?n?)\s+(töten|umbringen|verletzen)\b`)},
	{SignalHarmOthers, "de", regexp.MustCompile(`(?i)\bwill\s+(töten|umbringen|verletzen)\b`)},
}

// Detector scans text against the ordered pattern table.
type Detector struct {
	patterns []pattern
}

func NewDetector() *Detector {
	return &Detector{patterns: defaultPatterns}
}

// Detect returns the first matching family, self-harm taking precedence over
// harm-to-others. Runs synchronously on every outbound user message.
func (d *Detector) Detect(text string) Signal {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, p := range d.patterns {
		if p.family != SignalSelfHarm {
			continue
		}
		if p.re.MatchString(normalized) {
			return SignalSelfHarm
		}
	}
	for _, p := range d.patterns {
		if p.family != SignalHarmOthers {
			continue
		}
		if p.re.MatchString(normalized) {
			return SignalHarmOthers
		}
	}
	return SignalNone
}

// ShouldIntervene is a separate seam so severity policy can change without
// touching detection.
func ShouldIntervene(s Signal) bool {
	return s != SignalNone
}
