package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_String(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1592, "$15.92"},
		{675, "$6.75"},
		{5, "$0.05"},
		{0, "$0.00"},
		{123456, "$1234.56"},
		{29900, "$299.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.cents).String())
	}
}

func TestAmountFromCents(t *testing.T) {
	a, err := AmountFromCents(1592)
	require.NoError(t, err)
	assert.Equal(t, int64(1592), a.Cents())

	_, err = AmountFromCents(-1)
	assert.Error(t, err)
}

func TestAmount_Float64(t *testing.T) {
	assert.Equal(t, 15.92, Amount(1592).Float64())
	assert.Equal(t, 0.0, Amount(0).Float64())
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Amount(1592))
	require.NoError(t, err)
	assert.Equal(t, `"$15.92"`, string(data))
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(9.99, 9.99))
	assert.True(t, NearlyEqual(9.99, 9.993))
	assert.False(t, NearlyEqual(9.99, 10.00))
}
