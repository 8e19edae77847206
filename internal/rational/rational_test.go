package rational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicec/internal/rational"
)

func TestAddAndMul(t *testing.T) {
	a := rational.New(1, 6)
	b := rational.New(1, 6)
	assert.Equal(t, "1/3", a.Add(b).String())
	assert.Equal(t, "1/36", a.Mul(b).String())
}

func TestZeroAndOne(t *testing.T) {
	assert.True(t, rational.Zero().IsZero())
	assert.False(t, rational.One().IsZero())
	assert.Equal(t, 0, rational.One().Cmp(rational.FromInt(1)))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "0.166666666667", rational.New(1, 6).Decimal(12))
	assert.Equal(t, "1.000000000000", rational.One().Decimal(12))
}

func TestSumOfSixSixthsIsOne(t *testing.T) {
	total := rational.Zero()
	for i := 0; i < 6; i++ {
		total = total.Add(rational.New(1, 6))
	}
	assert.Equal(t, 0, total.Cmp(rational.One()))
}
