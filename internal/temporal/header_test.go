package temporal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/basetype"
)

func TestHeaderRoundTripsThroughBinary(t *testing.T) {
	want := Header{
		TempType: 2,
		SubType:  basetype.Float8,
		Flags:    NewHeaderFlags(Linear, true, false, true, true, false),
		Count:    17,
		MaxCount: 32,
		BBoxLo:   -100,
		BBoxHi:   9000,
	}

	buf, err := want.MarshalBinary()
	require.Nil(t, err)

	var got Header
	require.Nil(t, got.UnmarshalBinary(buf))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("header round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderUnmarshalRejectsShortBuffer(t *testing.T) {
	var h Header
	require.NotNil(t, h.UnmarshalBinary(make([]byte, headerSize-1)))
}

func TestHeaderFlagsPackAndUnpack(t *testing.T) {
	f := NewHeaderFlags(Step, true, true, false, false, true)
	require.Equal(t, Step, f.Interpolation())
	require.True(t, f.HasZ())
	require.True(t, f.Geodetic())
	require.False(t, f.ByValue())
	require.False(t, f.LowerInc())
	require.True(t, f.UpperInc())
}
