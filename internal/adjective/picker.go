package adjective

import (
	"errors"
	"math/rand/v2"
)

// Vocabulary is the fixed list of comparative adjectives offered for drawing.
var Vocabulary = []string{
	"taller",
	"shorter",
	"faster",
	"slower",
	"stronger",
	"happier",
	"sillier",
	"braver",
	"louder",
	"quieter",
	"sleepier",
	"hungrier",
	"funnier",
	"messier",
	"neater",
	"busier",
	"luckier",
	"smarter",
	"kinder",
	"bouncier",
}

// ErrEmptyVocabulary is returned when a picker is built without words.
var ErrEmptyVocabulary = errors.New("adjective: vocabulary is empty")

// Picker draws adjectives uniformly at random. Draws are independent, so the
// same word may come up twice in a row.
type Picker struct {
	words []string
	intN  func(n int) int
}

// NewPicker builds a picker over words using the global random source.
func NewPicker(words []string) (*Picker, error) {
	return NewPickerWithRand(words, rand.IntN)
}

// NewPickerWithRand builds a picker whose index source is intN, which must
// return a value in [0, n).
func NewPickerWithRand(words []string, intN func(n int) int) (*Picker, error) {
	if len(words) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if intN == nil {
		intN = rand.IntN
	}
	cp := make([]string, len(words))
	copy(cp, words)
	return &Picker{words: cp, intN: intN}, nil
}

// Draw returns one adjective from the vocabulary.
func (p *Picker) Draw() string {
	return p.words[p.intN(len(p.words))]
}

// Words returns a copy of the vocabulary.
func (p *Picker) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}
