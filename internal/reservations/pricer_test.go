package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, 500.0, Price(500, 1))
	assert.Equal(t, 2000.0, Price(500, 4))
	assert.Equal(t, 1297.5, Price(432.5, 3))
}

func TestPriceDegenerateCounts(t *testing.T) {
	assert.Equal(t, 0.0, Price(500, 0))
	assert.Equal(t, 0.0, Price(500, -2))
}
