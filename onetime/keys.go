// Package onetime implements CryptoNote-style one-time keys and the
// traceable ring signature protocol built on them (spec §4.3, §4.4).
package onetime

import (
	"github.com/ringsig/cryptonote/curve"
	"github.com/ringsig/cryptonote/scalar"
)

// PrivateKey wraps the signer's secret scalar x. Unlike a standard EdDSA
// private key, x is used exactly as sampled: there is no seed hashing and
// no bit-clamping, since the ring construction depends on x·G being a
// linear function of x.
type PrivateKey struct {
	x scalar.Scalar
}

// GeneratePrivateKey samples a new private key using the process CSPRNG.
func GeneratePrivateKey() (PrivateKey, error) {
	x, err := scalar.Random()
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{x: x}, nil
}

// PrivateKeyFromBytes wraps 32 raw bytes as a private key, without
// clamping or hashing.
func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	x, err := scalar.FromBytes(b)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{x: x}, nil
}

// Bytes returns the raw secret scalar encoding.
func (sk PrivateKey) Bytes() []byte {
	return sk.x.Bytes()
}

// PublicKey returns x·G.
func (sk PrivateKey) PublicKey() PublicKey {
	return PublicKey{P: curve.BaseMul(sk.x)}
}

// KeyImage returns I = x·H_p(x·G), the deterministic tag that links every
// signature made with this key.
func (sk PrivateKey) KeyImage() (curve.Point, error) {
	Hp, err := sk.PublicKey().P.HashToPoint(curve.DefaultHash)
	if err != nil {
		return curve.Point{}, err
	}
	return Hp.ScalarMul(sk.x), nil
}

// Zeroize overwrites the secret scalar's backing bytes. A hardening
// measure, not a correctness requirement.
func (sk *PrivateKey) Zeroize() {
	sk.x.Zeroize()
}

// PublicKey wraps a point P = x·G for some (unknown to the holder of the
// PublicKey) private scalar x.
type PublicKey struct {
	P curve.Point
}

// PublicKeyFromBytes decodes a 32-byte point encoding as a public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	p, err := curve.FromBytes(b)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{P: p}, nil
}

// Bytes returns the point encoding exactly as stored.
func (pk PublicKey) Bytes() []byte {
	return pk.P.Bytes()
}
