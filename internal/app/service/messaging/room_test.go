package messaging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveRoomKeySymmetry(t *testing.T) {
	a := "0195f6a2-1111-7000-8000-000000000001"
	b := "0195f6a2-2222-7000-8000-000000000002"

	require.Equal(t, DeriveRoomKey(a, b), DeriveRoomKey(b, a))
	require.Equal(t, a+":"+b, DeriveRoomKey(b, a))
}

func TestDeriveRoomKeyDistinctPairs(t *testing.T) {
	a, b, c := "aaa", "bbb", "ccc"
	require.NotEqual(t, DeriveRoomKey(a, b), DeriveRoomKey(a, c))
	require.NotEqual(t, DeriveRoomKey(a, b), DeriveRoomKey(b, c))
}
