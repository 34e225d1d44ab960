// Package scalar implements arithmetic in Z/LZ, the scalar field of the
// Ed25519 prime-order subgroup, where
//
//	L = 2^252 + 27742317777372353535851937790883648493
//
// Values are stored as 32-byte little-endian integers and are not required
// to be canonical (< L) on construction from raw bytes or from an integer;
// every value produced by an arithmetic operation defined on this type is
// always reduced modulo L. This dual mode lets wire bytes that encode a
// non-canonical scalar round-trip faithfully while keeping every computed
// result in canonical form.
package scalar

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
)

// Size is the length in bytes of a scalar's canonical encoding.
const Size = 32

// WideSize is the length in bytes of an unreduced wide scalar, as produced
// by a 512-bit hash digest.
const WideSize = 64

// ErrSize is returned when raw bytes of the wrong length are supplied to a
// constructor.
var ErrSize = errors.New("scalar: invalid byte length")

// ErrNotInvertible is returned when inverting (or dividing by) the zero
// scalar.
var ErrNotInvertible = errors.New("scalar: zero is not invertible")

// lBig is L, the prime order of the Ed25519 prime-order subgroup.
var lBig, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// L returns the prime order of the Ed25519 prime-order subgroup, as a copy
// of the package's internal constant.
func L() *big.Int {
	return new(big.Int).Set(lBig)
}

// Scalar is an element of Z/LZ. The zero value is the scalar zero.
type Scalar struct {
	raw [Size]byte
}

// Zero returns the additive identity.
func Zero() Scalar { return Scalar{} }

// One returns the multiplicative identity.
func One() Scalar {
	var s Scalar
	s.raw[0] = 1
	return s
}

// FromBigInt encodes a non-negative integer less than 2^256 as a scalar.
// The value is stored exactly as given and is not reduced modulo L.
func FromBigInt(n *big.Int) (Scalar, error) {
	if n.Sign() < 0 {
		return Scalar{}, errors.Wrap(ErrSize, "scalar: negative integer")
	}
	be := n.Bytes()
	if len(be) > Size {
		return Scalar{}, errors.Wrap(ErrSize, "scalar: integer does not fit in 32 bytes")
	}
	var s Scalar
	for i, b := range be {
		s.raw[len(be)-1-i] = b
	}
	return s, nil
}

// FromInt encodes a non-negative int64 as a scalar. It does not reduce
// modulo L (though any int64 is trivially < L already).
func FromInt(n int64) Scalar {
	s, err := FromBigInt(big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return s
}

// FromBytes wraps a 32-byte little-endian value as a scalar without
// reducing it modulo L.
func FromBytes(b []byte) (Scalar, error) {
	if len(b) != Size {
		return Scalar{}, errors.Wrapf(ErrSize, "scalar: want %d bytes, got %d", Size, len(b))
	}
	var s Scalar
	copy(s.raw[:], b)
	return s, nil
}

// FromWideBytes reduces a 64-byte little-endian value modulo L.
func FromWideBytes(b []byte) (Scalar, error) {
	if len(b) != WideSize {
		return Scalar{}, errors.Wrapf(ErrSize, "scalar: want %d wide bytes, got %d", WideSize, len(b))
	}
	es, err := new(edwards25519.Scalar).SetUniformBytes(b)
	if err != nil {
		// SetUniformBytes only fails on wrong length, already checked above.
		return Scalar{}, errors.Wrap(err, "scalar: wide reduction")
	}
	return fromEdwards(es), nil
}

// Random samples a scalar uniformly from [1, L-1] using the process CSPRNG.
func Random() (Scalar, error) {
	for {
		var wide [WideSize]byte
		if _, err := rand.Read(wide[:]); err != nil {
			return Scalar{}, errors.Wrap(err, "scalar: reading random bytes")
		}
		s, err := FromWideBytes(wide[:])
		if err != nil {
			return Scalar{}, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
}

// Bytes returns the 32-byte little-endian encoding of s, exactly as stored.
func (s Scalar) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, s.raw[:])
	return out
}

// Equal reports whether s and o have identical byte encodings. This is a
// raw, non-reducing comparison: two non-canonical encodings of the same
// residue compare unequal unless their bytes match exactly, matching the
// wire round-trip contract documented on the package.
func (s Scalar) Equal(o Scalar) bool {
	return subtle.ConstantTimeCompare(s.raw[:], o.raw[:]) == 1
}

// IsZero reports whether s reduces to the zero residue modulo L.
func (s Scalar) IsZero() bool {
	return s.canonical().Equal(new(edwards25519.Scalar)) == 1
}

// canonical reduces s modulo L via wide reduction, regardless of whether s
// was already canonical.
func (s Scalar) canonical() *edwards25519.Scalar {
	var wide [WideSize]byte
	copy(wide[:Size], s.raw[:])
	es, err := new(edwards25519.Scalar).SetUniformBytes(wide[:])
	if err != nil {
		panic("scalar: internal wide reduction failure: " + err.Error())
	}
	return es
}

func fromEdwards(es *edwards25519.Scalar) Scalar {
	var s Scalar
	copy(s.raw[:], es.Bytes())
	return s
}

// Add returns s + o mod L.
func (s Scalar) Add(o Scalar) Scalar {
	return fromEdwards(new(edwards25519.Scalar).Add(s.canonical(), o.canonical()))
}

// Sub returns s - o mod L.
func (s Scalar) Sub(o Scalar) Scalar {
	return fromEdwards(new(edwards25519.Scalar).Subtract(s.canonical(), o.canonical()))
}

// Mul returns s * o mod L.
func (s Scalar) Mul(o Scalar) Scalar {
	return fromEdwards(new(edwards25519.Scalar).Multiply(s.canonical(), o.canonical()))
}

// MulAdd returns s*x + y mod L.
func (s Scalar) MulAdd(x, y Scalar) Scalar {
	return fromEdwards(new(edwards25519.Scalar).MultiplyAdd(s.canonical(), x.canonical(), y.canonical()))
}

// Negate returns -s mod L.
func (s Scalar) Negate() Scalar {
	return fromEdwards(new(edwards25519.Scalar).Negate(s.canonical()))
}

// Invert returns 1/s mod L. It returns ErrNotInvertible if s is zero.
func (s Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return Scalar{}, ErrNotInvertible
	}
	return fromEdwards(new(edwards25519.Scalar).Invert(s.canonical())), nil
}

// Div returns s / o mod L, computed as s * o^-1. It returns
// ErrNotInvertible if o is zero.
func (s Scalar) Div(o Scalar) (Scalar, error) {
	inv, err := o.Invert()
	if err != nil {
		return Scalar{}, err
	}
	return s.Mul(inv), nil
}

// Zeroize overwrites the scalar's backing bytes with zeros. It is a
// hardening measure for secret material, not a correctness requirement.
func (s *Scalar) Zeroize() {
	for i := range s.raw {
		s.raw[i] = 0
	}
}
