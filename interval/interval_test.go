package interval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	require.True(t, Empty().IsEmpty())
	require.Nil(t, Empty().First())
	require.Nil(t, Empty().Last())
}

func TestNewNormalizesInvertedBounds(t *testing.T) {
	iv := FromInt(10, 5)
	require.True(t, iv.IsEmpty())
}

func TestFirstLast(t *testing.T) {
	iv := FromInt(1, 500)
	require.Equal(t, big.NewInt(1), iv.First())
	require.Equal(t, big.NewInt(500), iv.Last())
}

func TestContains(t *testing.T) {
	iv := FromInt(0, 10)
	require.True(t, iv.Contains(big.NewInt(0)))
	require.True(t, iv.Contains(big.NewInt(10)))
	require.True(t, iv.Contains(big.NewInt(5)))
	require.False(t, iv.Contains(big.NewInt(-1)))
	require.False(t, iv.Contains(big.NewInt(11)))
	require.False(t, Empty().Contains(big.NewInt(0)))
}

func TestClipFirstClipLast(t *testing.T) {
	iv := FromInt(0, 10)
	require.True(t, iv.ClipFirst(big.NewInt(1)).Equal(FromInt(1, 10)))
	require.True(t, iv.ClipLast(big.NewInt(1)).Equal(FromInt(0, 9)))
	require.True(t, Empty().ClipFirst(big.NewInt(1)).IsEmpty())
}

func TestIntersect(t *testing.T) {
	a := FromInt(0, 10)
	b := FromInt(5, 20)
	require.True(t, a.Intersect(b).Equal(FromInt(5, 10)))

	c := FromInt(20, 30)
	require.True(t, a.Intersect(c).IsEmpty())
}

func TestMidpointFloorsTowardLeft(t *testing.T) {
	require.Equal(t, big.NewInt(5), FromInt(0, 10).Midpoint())
	require.Equal(t, big.NewInt(4), FromInt(0, 9).Midpoint())
	// negative ranges: (-3 + -2) / 2 = -2.5, floor => -3.
	require.Equal(t, big.NewInt(-3), FromInt(-3, -2).Midpoint())
}

func TestKeyDistinguishesIntervals(t *testing.T) {
	require.Equal(t, "0:10", FromInt(0, 10).Key())
	require.Equal(t, "empty", Empty().Key())
	require.NotEqual(t, FromInt(0, 10).Key(), FromInt(0, 9).Key())
}
