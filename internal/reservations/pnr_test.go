package reservations

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	gen := NewPNRGenerator()

	code, err := gen.Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "PNR_"))
	assert.Len(t, code, len("PNR_")+6)

	for _, c := range code[len("PNR_"):] {
		assert.Contains(t, pnrAlphabet, string(c))
	}
}

func TestGenerateExcludesAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, pnrAlphabet, forbidden)
	}
}

func TestGenerateDeterministicSource(t *testing.T) {
	picks := []int{0, 1, 2, 3, 4, 5}
	i := 0
	gen := NewPNRGeneratorWithSource(func(n int) (int, error) {
		p := picks[i%len(picks)]
		i++
		return p, nil
	})

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, "PNR_ABCDEF", code)
}

func TestGenerateSourceFailure(t *testing.T) {
	gen := NewPNRGeneratorWithSource(func(n int) (int, error) {
		return 0, errors.New("entropy exhausted")
	})

	_, err := gen.Generate()
	assert.Error(t, err)
}
