package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicec/internal/env"
)

func TestMapLookupFound(t *testing.T) {
	m := env.MapLookup{Ints: map[string]int64{"N": 3}, Bools: map[string]bool{"B": true}}

	n, err := m.LookupInt("N")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)

	b, err := m.LookupBool("B")
	assert.NoError(t, err)
	assert.True(t, b)
}

func TestMapLookupMissing(t *testing.T) {
	m := env.MapLookup{}

	_, err := m.LookupInt("N")
	assert.Error(t, err)
	assert.IsType(t, &env.ErrMissing{}, err)

	_, err = m.LookupBool("B")
	assert.IsType(t, &env.ErrMissing{}, err)
}

func TestOSLookupParseFailed(t *testing.T) {
	t.Setenv("DICEC_TEST_BADINT", "not-a-number")
	_, err := env.OSLookup{}.LookupInt("DICEC_TEST_BADINT")
	assert.IsType(t, &env.ErrParseFailed{}, err)
}

func TestOSLookupSuccess(t *testing.T) {
	t.Setenv("DICEC_TEST_GOODINT", "42")
	v, err := env.OSLookup{}.LookupInt("DICEC_TEST_GOODINT")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), v)
}
