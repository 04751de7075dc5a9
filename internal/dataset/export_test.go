package dataset

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoundTripsSample(t *testing.T) {
	want := Sample()

	var buf bytes.Buffer
	require.NoError(t, Write(want, &buf))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, want.Settlements, got.Settlements)
	assert.Equal(t, want.Streets, got.Streets)
	assert.Equal(t, want.Buildings, got.Buildings)
	assert.Equal(t, want.Operators, got.Operators)
	assert.Equal(t, want.Coverage, got.Coverage)
	assert.Equal(t, want.Antennas, got.Antennas)
	require.Len(t, got.Offers, len(want.Offers))
	for i := range want.Offers {
		assert.Equal(t, want.Offers[i].ID, got.Offers[i].ID)
		assert.Equal(t, want.Offers[i].LocalSettlements, got.Offers[i].LocalSettlements)
		assert.Equal(t, want.Offers[i].Active, got.Offers[i].Active)
		assert.InDelta(t, want.Offers[i].Price, got.Offers[i].Price, 1e-9)
		assert.True(t, want.Offers[i].CreatedAt.Equal(got.Offers[i].CreatedAt))
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")
	require.NoError(t, SaveFile(Sample(), path))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, ds.Settlements, len(Sample().Settlements))
}
