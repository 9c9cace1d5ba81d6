package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rank int

func (r rank) LessThan(other rank) bool { return r < other }

// pair is a minimal VectorSpace over S
type pair[S Ring] struct{ a, b S }

func (p *pair[S]) Clone() *pair[S]       { cp := *p; return &cp }
func (p *pair[S]) AddInPlace(o *pair[S]) { p.a += o.a; p.b += o.b }
func (p *pair[S]) ScaleInPlace(s S)      { p.a *= s; p.b *= s }

func TestPosetDerivedComparisons(t *testing.T) {
	assert.True(t, Less(rank(1), rank(2)))
	assert.False(t, Less(rank(2), rank(2)))
	assert.True(t, Greater(rank(3), rank(2)))
	assert.True(t, Equal(rank(2), rank(2)))
	assert.True(t, NotEqual(rank(1), rank(2)))
	assert.True(t, LessEqual(rank(2), rank(2)))
	assert.True(t, LessEqual(rank(1), rank(2)))
	assert.False(t, LessEqual(rank(3), rank(2)))
	assert.True(t, GreaterEqual(rank(2), rank(2)))
	assert.False(t, GreaterEqual(rank(1), rank(2)))
}

func TestVectorSpaceDerivedOperators(t *testing.T) {
	type V = *pair[float64]
	x := &pair[float64]{1, 2}
	y := &pair[float64]{3, -5}

	assert.Equal(t, pair[float64]{4, -3}, *Add[V, float64](x, y))
	assert.Equal(t, pair[float64]{-2, 7}, *Sub[V, float64](x, y))
	assert.Equal(t, pair[float64]{-1, -2}, *Neg[V, float64](x))
	assert.Equal(t, pair[float64]{3, 6}, *Mul[V, float64](3, x))
	assert.Equal(t, pair[float64]{3, 6}, *MulRight[V, float64](x, 3))
	assert.Equal(t, pair[float64]{0.5, 1}, *Div[V, float64](x, 2))

	// operands are untouched
	assert.Equal(t, pair[float64]{1, 2}, *x)
	assert.Equal(t, pair[float64]{3, -5}, *y)

	z := x.Clone()
	SubInPlace[V, float64](z, x)
	assert.Equal(t, pair[float64]{0, 0}, *z)

	w := y.Clone()
	DivInPlace[V, float64](w, 0.5)
	assert.Equal(t, pair[float64]{6, -10}, *w)
}

func TestVectorSpaceOverIntegers(t *testing.T) {
	type V = *pair[int]
	x := &pair[int]{2, -7}
	assert.Equal(t, pair[int]{-2, 7}, *Neg[V, int](x))
	assert.Equal(t, pair[int]{0, 0}, *Add[V, int](x, Neg[V, int](x)))
	assert.Equal(t, pair[int]{4, -14}, *Mul[V, int](2, x))
}
