package fingerprint

import (
	"testing"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Deterministic(t *testing.T) {
	ies := []domain.InformationElement{
		{ID: 1, Len: 2, Data: []byte{0x01, 0x02}},
		{ID: 50, Len: 1, Data: []byte{0x30}},
	}

	first := Calculate(ies)
	second := Calculate(ies)

	assert.Equal(t, first, second)
	assert.Len(t, first, truncateLen)
}

func TestCalculate_OrderIndependent(t *testing.T) {
	a := []domain.InformationElement{
		{ID: 1, Len: 2, Data: []byte{0x01, 0x02}},
		{ID: 50, Len: 1, Data: []byte{0x30}},
	}
	b := []domain.InformationElement{
		{ID: 50, Len: 1, Data: []byte{0x30}},
		{ID: 1, Len: 2, Data: []byte{0x01, 0x02}},
	}

	assert.Equal(t, Calculate(a), Calculate(b))
}

func TestCalculate_ExcludesVolatileIEs(t *testing.T) {
	withSSID := []domain.InformationElement{
		{ID: 0, Len: 4, Data: []byte("home")},
		{ID: 1, Len: 1, Data: []byte{0x01}},
	}
	withoutSSID := []domain.InformationElement{
		{ID: 1, Len: 1, Data: []byte{0x01}},
	}

	assert.Equal(t, Calculate(withoutSSID), Calculate(withSSID))
}

func TestCalculate_DifferentStableIEsDiffer(t *testing.T) {
	a := []domain.InformationElement{{ID: 1, Len: 1, Data: []byte{0x01}}}
	b := []domain.InformationElement{{ID: 1, Len: 1, Data: []byte{0x02}}}

	require.NotEqual(t, Calculate(a), Calculate(b))
}

func TestCalculate_NoStableIEs(t *testing.T) {
	ies := []domain.InformationElement{
		{ID: 0, Len: 0, Data: nil},
		{ID: 3, Len: 1, Data: []byte{0x06}},
		{ID: 221, Len: 3, Data: []byte{0x00, 0x50, 0xf2}},
	}

	assert.Equal(t, domain.NoStableIEs, Calculate(ies))
}

func TestCalculate_EmptyInput(t *testing.T) {
	assert.Equal(t, domain.NoStableIEs, Calculate(nil))
}
