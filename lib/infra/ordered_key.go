package infra

import (
	"cmp"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is the set of key types ordered by the builtin operators.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// KeyComparator defines a strict weak ordering over K.
// Assume i is the probing key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
type KeyComparator[K any] func(i, j K) int64

// OrderedKeyComparator is kept for the ordered key only callers.
type OrderedKeyComparator[K OrderedKey] KeyComparator[K]

// AscOrderedKeyCmp orders a NaN key before every other float and
// equal to itself.
func AscOrderedKeyCmp[K OrderedKey](i, j K) int64 {
	return int64(cmp.Compare(i, j))
}

func DescOrderedKeyCmp[K OrderedKey](i, j K) int64 {
	return -AscOrderedKeyCmp[K](i, j)
}

// ReverseCmp flips the ordering of cmp.
func ReverseCmp[K any](keyCmp KeyComparator[K]) KeyComparator[K] {
	return func(i, j K) int64 {
		return keyCmp(j, i)
	}
}

// Placeholder is the unit value paired with every key of a key-only container.
type Placeholder struct{}
