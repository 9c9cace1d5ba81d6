package algebra

import "golang.org/x/exp/constraints"

// Ring is the set of coefficient types a chain can be built over. Every
// member has an additive inverse obtainable as a conversion of -1, so
// negation never needs a multiplicative inverse.
type Ring interface {
	constraints.Signed | constraints.Float
}

// Field restricts Ring to the types where 1/s is meaningful for every
// nonzero s. Integer rings are excluded: 1/s truncates to zero.
type Field interface {
	constraints.Float
}

// Poset is implemented by types carrying a strict weak ordering.
// All other comparisons are derived from LessThan.
type Poset[T any] interface {
	LessThan(other T) bool
}

func Less[T Poset[T]](a, b T) bool {
	return a.LessThan(b)
}

func Greater[T Poset[T]](a, b T) bool {
	return b.LessThan(a)
}

// Equal reports equivalence under the ordering: neither element precedes
// the other.
func Equal[T Poset[T]](a, b T) bool {
	return !a.LessThan(b) && !b.LessThan(a)
}

func NotEqual[T Poset[T]](a, b T) bool {
	return !Equal(a, b)
}

func LessEqual[T Poset[T]](a, b T) bool {
	return !b.LessThan(a)
}

func GreaterEqual[T Poset[T]](a, b T) bool {
	return !a.LessThan(b)
}

// VectorSpace is an abelian group with a scalar action of S. Implementations
// provide the two in-place primitives plus a deep copy; the binary
// operators below are derived from them and never mutate their operands.
type VectorSpace[V any, S Ring] interface {
	Clone() V
	AddInPlace(v V)
	ScaleInPlace(s S)
}

// Add returns v1 + v2.
func Add[V VectorSpace[V, S], S Ring](v1, v2 V) V {
	out := v1.Clone()
	out.AddInPlace(v2)
	return out
}

// Sub returns v1 - v2.
func Sub[V VectorSpace[V, S], S Ring](v1, v2 V) V {
	out := v1.Clone()
	SubInPlace[V, S](out, v2)
	return out
}

// SubInPlace subtracts v from dst.
func SubInPlace[V VectorSpace[V, S], S Ring](dst, v V) {
	dst.AddInPlace(Neg[V, S](v))
}

// Neg returns the additive inverse of v, computed as v scaled by -1.
func Neg[V VectorSpace[V, S], S Ring](v V) V {
	out := v.Clone()
	out.ScaleInPlace(S(-1))
	return out
}

// Mul returns s*v.
func Mul[V VectorSpace[V, S], S Ring](s S, v V) V {
	out := v.Clone()
	out.ScaleInPlace(s)
	return out
}

// MulRight returns v*s. Scalars commute with vectors so this equals Mul.
func MulRight[V VectorSpace[V, S], S Ring](v V, s S) V {
	return Mul[V, S](s, v)
}

// Div returns v/s, implemented as a scaling by 1/s. Only available over
// fields; division by zero follows IEEE semantics of S.
func Div[V VectorSpace[V, S], S Field](v V, s S) V {
	return Mul[V, S](1/s, v)
}

// DivInPlace divides dst by s.
func DivInPlace[V VectorSpace[V, S], S Field](dst V, s S) {
	dst.ScaleInPlace(1 / s)
}
