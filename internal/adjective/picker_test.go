package adjective

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPickerRejectsEmptyVocabulary(t *testing.T) {
	_, err := NewPicker(nil)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestDrawAllowsRepeats(t *testing.T) {
	p, err := NewPickerWithRand([]string{"taller", "faster"}, func(int) int { return 1 })
	require.NoError(t, err)

	assert.Equal(t, "faster", p.Draw())
	assert.Equal(t, "faster", p.Draw())
}

func TestDrawReachesEveryWord(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	p, err := NewPickerWithRand(Vocabulary, r.IntN)
	require.NoError(t, err)

	seen := make(map[string]int, len(Vocabulary))
	for i := 0; i < 5000; i++ {
		w := p.Draw()
		require.Contains(t, Vocabulary, w)
		seen[w]++
	}
	assert.Len(t, seen, len(Vocabulary))
}

func TestWordsIsACopy(t *testing.T) {
	p, err := NewPicker([]string{"taller"})
	require.NoError(t, err)

	words := p.Words()
	words[0] = "changed"
	assert.Equal(t, "taller", p.Draw())
}

func TestVocabularyHasNoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, w := range Vocabulary {
		assert.Falsef(t, seen[w], "duplicate %q", w)
		seen[w] = true
	}
}
