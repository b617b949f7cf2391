package tracklist

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sequencer orders file names in natural order.
//
// Text runs are compared with locale-aware collation, digit runs by numeric
// value. When every compared run is equal the shorter name sorts first, and
// names of equal length fall back to a byte-wise comparison so that the order
// is total.
type Sequencer struct {
	lang language.Tag
}

// NewSequencer returns a sequencer collating text runs for the given language.
func NewSequencer(lang language.Tag) *Sequencer {
	return &Sequencer{lang: lang}
}

// ParseSequencer builds a sequencer from a BCP 47 tag. An empty tag selects
// the root collation.
func ParseSequencer(tag string) (*Sequencer, error) {
	if tag == "" {
		return NewSequencer(language.Und), nil
	}
	lang, err := language.Parse(tag)
	if err != nil {
		return nil, err
	}
	return NewSequencer(lang), nil
}

var defaultSequencer = NewSequencer(language.Und)

// Compare compares two names in natural order using the root collation.
func Compare(a, b string) int {
	return defaultSequencer.Compare(a, b)
}

// Sort returns a naturally ordered copy of names using the root collation.
func Sort(names []string) []string {
	return defaultSequencer.Sort(names)
}

// Compare compares two names in natural order.
func (s *Sequencer) Compare(a, b string) int {
	return compareNatural(s.collator(), a, b)
}

// Sort returns a naturally ordered copy of names. The input is not modified.
func (s *Sequencer) Sort(names []string) []string {
	out := slices.Clone(names)
	if out == nil {
		out = []string{}
	}
	c := s.collator()
	slices.SortStableFunc(out, func(a, b string) int {
		return compareNatural(c, a, b)
	})
	return out
}

// SortTracks orders tracks by file name. The input is not modified.
func (s *Sequencer) SortTracks(tracks []Track) []Track {
	out := slices.Clone(tracks)
	if out == nil {
		out = []Track{}
	}
	c := s.collator()
	slices.SortStableFunc(out, func(a, b Track) int {
		return compareNatural(c, a.FileName, b.FileName)
	})
	return out
}

// Sequence keeps the supported audio files of a folder listing and returns
// them in natural order.
func (s *Sequencer) Sequence(names []string) []string {
	audio := make([]string, 0, len(names))
	for _, name := range names {
		if IsAudioFile(name) {
			audio = append(audio, name)
		}
	}
	return s.Sort(audio)
}

// collate.Collator keeps iteration buffers and is not safe for concurrent
// use, so every call gets its own.
func (s *Sequencer) collator() *collate.Collator {
	return collate.New(s.lang)
}

func compareNatural(c *collate.Collator, a, b string) int {
	textA, numsA := splitRuns(a)
	textB, numsB := splitRuns(b)

	for i := range min(len(textA), len(textB)) {
		if r := c.CompareString(textA[i], textB[i]); r != 0 {
			return r
		}
		if i < len(numsA) && i < len(numsB) {
			if r := compareDigits(numsA[i], numsB[i]); r != 0 {
				return r
			}
		}
	}

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// splitRuns splits s around its ASCII digit runs. text always has exactly one
// more element than digits, so text[i] is followed by digits[i].
func splitRuns(s string) (text, digits []string) {
	start := 0
	i := 0
	for i < len(s) {
		if !isDigit(s[i]) {
			i++
			continue
		}
		text = append(text, s[start:i])
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		digits = append(digits, s[i:j])
		start = j
		i = j
	}
	text = append(text, s[start:])
	return text, digits
}

// compareDigits compares two digit runs by value without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
