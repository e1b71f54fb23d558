package reservations

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PNR codes are short booking references printed on tickets. The alphabet
// drops 0, O, 1 and I so codes survive being read over the phone.
const (
	pnrAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	pnrLength   = 6
	pnrPrefix   = "PNR_"
)

// PNRGenerator produces booking references. The character source is
// injectable for tests; production uses crypto/rand.
type PNRGenerator struct {
	pick func(n int) (int, error)
}

func NewPNRGenerator() *PNRGenerator {
	return &PNRGenerator{pick: cryptoPick}
}

// NewPNRGeneratorWithSource builds a generator whose pick(n) returns an
// index into the alphabet. Used in tests for deterministic output.
func NewPNRGeneratorWithSource(pick func(n int) (int, error)) *PNRGenerator {
	return &PNRGenerator{pick: pick}
}

// Generate returns one candidate code, e.g. "PNR_K7XQ2M". Uniqueness is the
// caller's job; collide and call again.
func (g *PNRGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString(pnrPrefix)
	for i := 0; i < pnrLength; i++ {
		idx, err := g.pick(len(pnrAlphabet))
		if err != nil {
			return "", fmt.Errorf("failed to generate pnr: %w", err)
		}
		b.WriteByte(pnrAlphabet[idx])
	}
	return b.String(), nil
}

func cryptoPick(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
