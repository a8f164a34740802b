package oui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTable = `# OUI table
AA:BB:CC	short	Acme Corp
00:50:F2	ms	Microsoft Corp

DE:AD:00	dead	Example Inc
`

func TestLoad_ParsesTabSeparatedColumns(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)

	mfr, trusted := tbl.Lookup("aa:bb:cc:11:22:33")
	require.False(t, trusted)
	require.Equal(t, "Acme Corp", mfr)
}

func TestLoad_Idempotent(t *testing.T) {
	a, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)
	b, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)

	require.Equal(t, a.byPrefix, b.byPrefix)
}

func TestLookup_TrustedDeviceHit(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)
	tbl = tbl.WithTrustedDevices([]string{"AA:BB:CC:11:22:33"})

	mfr, trusted := tbl.Lookup("aa:bb:cc:11:22:33")
	require.True(t, trusted)
	require.Equal(t, TrustedDeviceSentinel, mfr)
}

func TestLookup_LocallyAssignedFallback(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)

	// 0x02 set in the first octet -> U/L bit.
	mfr, trusted := tbl.Lookup("02:11:22:33:44:55")
	require.False(t, trusted)
	require.Equal(t, LocallyAssigned, mfr)
}

func TestLookup_UnknownOUIFallback(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)

	mfr, trusted := tbl.Lookup("11:22:33:44:55:66")
	require.False(t, trusted)
	require.Equal(t, UnknownOUI, mfr)
}

func TestLookup_CaseInsensitivePrefix(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleTable))
	require.NoError(t, err)

	mfr, _ := tbl.Lookup("de:ad:00:99:88:77")
	require.Equal(t, "Example Inc", mfr)
}
