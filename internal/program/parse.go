package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSetCount is used when a target-set string carries no number.
	DefaultSetCount = 3
	// DefaultRestSeconds is the fallback for unparseable rest strings.
	DefaultRestSeconds = 90
)

var (
	firstInt   = regexp.MustCompile(`(\d+)`)
	leadingInt = regexp.MustCompile(`^(\d+)`)
	intRange   = regexp.MustCompile(`(\d+)-(\d+)`)
	nonSlug    = regexp.MustCompile(`[^a-z0-9]+`)
)

// ParseTargetSets extracts the first integer of a target-set string.
//
//	"3-4" → 3, "20 mins" → 20, "self" → 3
func ParseTargetSets(s string) int {
	m := firstInt.FindStringSubmatch(s)
	if m == nil {
		return DefaultSetCount
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultSetCount
	}
	return n
}

// Range is an inclusive integer range.
type Range struct {
	Min int
	Max int
}

// ParseSetRange reads a target-set string as a range. Self-paced and
// timed-accumulation entries ("self", "20 mins") count as a single set.
func ParseSetRange(s string) Range {
	if s == "self" || strings.Contains(s, "mins") {
		return Range{Min: 1, Max: 1}
	}
	if r, ok := parseRange(s); ok {
		return r
	}
	return Range{Min: 3, Max: 4}
}

// ParseRepRange reads a target-rep string such as "6-8", "4-6 L&R" or "30-45s".
func ParseRepRange(s string) Range {
	if r, ok := parseRange(s); ok {
		return r
	}
	return Range{Min: 5, Max: 8}
}

func parseRange(s string) (Range, bool) {
	if m := intRange.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return Range{Min: lo, Max: hi}, true
	}
	if m := leadingInt.FindStringSubmatch(s); m != nil {
		v, _ := strconv.Atoi(m[1])
		return Range{Min: v, Max: v}, true
	}
	return Range{}, false
}

// ParseRestTime converts "M:SS" into seconds. For a range the first bound
// wins; anything unparseable yields DefaultRestSeconds.
//
//	"1:30" → 90, "2:00-3:00" → 120, "self" → 90
func ParseRestTime(s string) int {
	first, _, _ := strings.Cut(s, "-")
	minStr, secStr, ok := strings.Cut(strings.TrimSpace(first), ":")
	if !ok {
		return DefaultRestSeconds
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil {
		return DefaultRestSeconds
	}
	seconds, err := strconv.Atoi(secStr)
	if err != nil {
		return DefaultRestSeconds
	}
	return minutes*60 + seconds
}

// FormatTime renders seconds as "M:SS"; minutes are not wrapped into hours.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Slugify lowercases s and collapses every run of non-alphanumerics into a
// single hyphen. The mapping is lossy: Unslugify does not invert it.
func Slugify(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// Unslugify splits on hyphens and title-cases each word.
func Unslugify(slug string) string {
	if slug == "" {
		return ""
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SessionSlug returns the URL form of a session, e.g. "push-1".
func SessionSlug(s SessionType) string {
	return Slugify(string(s))
}

// SessionFromSlug resolves "pull-2" to Pull2. Unknown slugs fall back to Push1.
func SessionFromSlug(slug string) SessionType {
	for _, st := range SessionTypes {
		if SessionSlug(st) == slug {
			return st
		}
	}
	return Push1
}

// DefinitionBySlug finds a library entry whose slugified name equals slug.
func DefinitionBySlug(slug string) (ExerciseDefinition, bool) {
	for _, d := range exerciseDefinitions {
		if Slugify(d.Name) == slug {
			return d, true
		}
	}
	return ExerciseDefinition{}, false
}
