// Package curve implements point arithmetic on the Ed25519 prime-order
// subgroup: encoding, validation, addition, scalar multiplication, and the
// hash-to-curve/hash-to-scalar operations the ring protocol needs.
package curve

import (
	"bytes"
	"crypto/subtle"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"

	"github.com/ringsig/cryptonote/scalar"
)

// Size is the length in bytes of a point's canonical encoding.
const Size = 32

// ErrSize is returned when raw bytes of the wrong length are supplied to a
// constructor.
var ErrSize = errors.New("curve: invalid byte length")

// Point is an element of the Ed25519 group, encoded as the 32-byte
// little-endian y-coordinate with the sign of x carried in the top bit of
// the last byte.
//
// Decoding is deliberately two-step, the way pyring's ge.py Point stores
// its 32 bytes in __init__ and only checks them in is_valid(): FromBytes
// accepts any 32 bytes and defers the on-curve check to IsValid, so a
// Point can represent the "32 bytes that do not decode to a curve point"
// case named by spec.md §8 rather than that case being unrepresentable.
// Arithmetic on such a point treats it as the identity, which is always
// wrong for any actual verification equation and so causes ring_verify to
// fail rather than panic.
type Point struct {
	raw [Size]byte
}

// O is the identity element.
func O() Point {
	return Point{raw: toArray(edwards25519.NewIdentityPoint().Bytes())}
}

// G is the standard Ed25519 base point.
func G() Point {
	return Point{raw: toArray(edwards25519.NewGeneratorPoint().Bytes())}
}

func toArray(b []byte) [Size]byte {
	var a [Size]byte
	copy(a[:], b)
	return a
}

// FromBytes wraps 32 raw bytes as a Point without checking that they
// decode to a point on the curve; call IsValid to check that. This mirrors
// the wire format: any 32-byte string is a syntactically valid point
// encoding, valid or not.
func FromBytes(b []byte) (Point, error) {
	if len(b) != Size {
		return Point{}, errors.Wrapf(ErrSize, "curve: want %d bytes, got %d", Size, len(b))
	}
	return Point{raw: toArray(b)}, nil
}

// IsValid reports whether pt is a canonically encoded point on the curve
// that does not belong to the small (order-dividing-8) torsion subgroup,
// mirroring pyring's is_valid(), which wraps libsodium's
// crypto_core_ed25519_is_valid_point: on-curve decode, canonical
// round-trip, and a small-order rejection via cofactor multiplication
// (edwards25519.Scalar cannot represent the literal subgroup order L
// needed for a full membership check, since every Scalar is stored
// reduced mod L already). A Point built through this package's own
// operations (O, G, Add, ScalarMul, ...) always satisfies this except O
// itself, which libsodium also treats as a degenerate, rejected point.
func (pt Point) IsValid() bool {
	p, err := new(edwards25519.Point).SetBytes(pt.raw[:])
	if err != nil {
		return false
	}
	if !bytes.Equal(p.Bytes(), pt.raw[:]) {
		return false
	}
	smallOrder := new(edwards25519.Point).MultByCofactor(p)
	return smallOrder.Equal(edwards25519.NewIdentityPoint()) == 0
}

// Bytes returns the 32-byte encoding of pt, exactly as stored.
func (pt Point) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, pt.raw[:])
	return out
}

// Equal reports whether pt and o have identical byte encodings, using a
// constant-time comparison.
func (pt Point) Equal(o Point) bool {
	return subtle.ConstantTimeCompare(pt.raw[:], o.raw[:]) == 1
}

// Add returns pt + o. If either operand is not a point on the curve, the
// invalid operand is treated as the identity: the result is well-defined
// but not meaningful, and any equation depending on it will fail to hold.
func (pt Point) Add(o Point) Point {
	return Point{raw: toArray(new(edwards25519.Point).Add(pt.edPoint(), o.edPoint()).Bytes())}
}

// Sub returns pt - o, with the same invalid-operand handling as Add.
func (pt Point) Sub(o Point) Point {
	return Point{raw: toArray(new(edwards25519.Point).Subtract(pt.edPoint(), o.edPoint()).Bytes())}
}

// ScalarMul returns s*pt using generic (unclamped) scalar multiplication.
// The raw scalar is used as-is: no bit-clamping is applied, which is
// required for the linearity the ring construction relies on. As with Add,
// an invalid pt is treated as the identity.
func (pt Point) ScalarMul(s scalar.Scalar) Point {
	return Point{raw: toArray(new(edwards25519.Point).ScalarMult(edScalar(s), pt.edPoint()).Bytes())}
}

// BaseMul returns s*G using the precomputed base-point table. It must
// agree with G().ScalarMul(s) for every s.
func BaseMul(s scalar.Scalar) Point {
	return Point{raw: toArray(new(edwards25519.Point).ScalarBaseMult(edScalar(s)).Bytes())}
}

// edPoint decodes pt, substituting the identity for an encoding that is
// not actually on the curve, so arithmetic never panics on untrusted
// input: it simply produces a result that cannot satisfy any verification
// equation.
func (pt Point) edPoint() *edwards25519.Point {
	p, err := new(edwards25519.Point).SetBytes(pt.raw[:])
	if err != nil {
		return edwards25519.NewIdentityPoint()
	}
	return p
}

func edScalar(s scalar.Scalar) *edwards25519.Scalar {
	// scalar.Scalar.Bytes() may be non-canonical (> L); edwards25519.Scalar
	// requires a canonical or wide encoding, so route through the wide
	// reduction path to preserve the spec's "no clamping, raw value used"
	// contract without rejecting non-canonical inputs.
	var wide [64]byte
	copy(wide[:32], s.Bytes())
	es, err := new(edwards25519.Scalar).SetUniformBytes(wide[:])
	if err != nil {
		panic("curve: internal scalar reduction failure: " + err.Error())
	}
	return es
}
