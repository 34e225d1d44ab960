package curve

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/ringsig/cryptonote/scalar"
)

// DefaultHash is the hash algorithm used by hash_to_scalar and
// hash_to_point unless the caller names another one, per spec.
const DefaultHash = "sha3_512"

// HashFunc constructs a fresh hash.Hash instance, mirroring the way
// suites.CipherSuite exposes a configurable digest algorithm behind a
// small named registry rather than a hardcoded call.
type HashFunc func() hash.Hash

var hashFuncs = map[string]HashFunc{
	"sha3_512": sha3.New512,
	"sha2_512": sha512.New,
	"sha2_256": sha256.New,
}

// ErrUnknownHash is returned when hashName does not name a registered
// hash algorithm.
var ErrUnknownHash = errors.New("curve: unknown hash algorithm")

func lookupHash(hashName string) (HashFunc, error) {
	if hashName == "" {
		hashName = DefaultHash
	}
	h, ok := hashFuncs[hashName]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHash, "curve: %q", hashName)
	}
	return h, nil
}

// qBig is Q = 2^255 - 19, the prime modulus of the field Ed25519 is
// defined over. hash_to_scalar reduces modulo this, not the subgroup
// order L, per spec: this is a deliberate deviation from what would be
// the more principled modulus, preserved for fidelity to the protocol.
var qBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

// HashToScalar hashes data with the named algorithm (default sha3_512)
// and reduces the digest, interpreted as a little-endian integer, modulo
// Q = 2^255 - 19. The result is returned as a Scalar whose raw encoding
// may exceed L: it is reduced modulo L, as usual, the first time any
// Scalar arithmetic operation is applied to it.
func HashToScalar(data []byte, hashName string) (scalar.Scalar, error) {
	h, err := lookupHash(hashName)
	if err != nil {
		return scalar.Scalar{}, err
	}
	hasher := h()
	hasher.Write(data)
	digest := hasher.Sum(nil)

	be := make([]byte, len(digest))
	for i, b := range digest {
		be[len(digest)-1-i] = b
	}
	n := new(big.Int).SetBytes(be)
	n.Mod(n, qBig)

	return scalar.FromBigInt(n)
}

// HashToPoint computes H_p(pt): it hashes the encoding of pt with the
// named algorithm (default sha3_512, producing a 64-byte digest that is
// mapped with FromHash) and maps the digest onto the curve. A 32-byte
// digest is mapped with FromUniform instead; any other digest length is
// rejected.
func (pt Point) HashToPoint(hashName string) (Point, error) {
	h, err := lookupHash(hashName)
	if err != nil {
		return Point{}, err
	}
	hasher := h()
	hasher.Write(pt.Bytes())
	digest := hasher.Sum(nil)

	switch len(digest) {
	case WideMapSize:
		return FromHash(digest)
	case UniformMapSize:
		return FromUniform(digest)
	default:
		return Point{}, errors.Errorf("curve: hash %q produced %d bytes, want %d or %d",
			hashName, len(digest), UniformMapSize, WideMapSize)
	}
}

const (
	// UniformMapSize is the input length accepted by FromUniform.
	UniformMapSize = 32
	// WideMapSize is the input length accepted by FromHash.
	WideMapSize = 64
	// maxTrialIncrement bounds the trial-and-increment loop; failure to
	// find a valid curve point within this many attempts would indicate a
	// broken hash function, not bad luck (each attempt succeeds with
	// probability roughly 1/2).
	maxTrialIncrement = 256
)

// FromUniform maps 32 bytes onto a point in the prime-order subgroup using
// trial-and-increment: it re-hashes the input with an appended counter
// byte until the candidate y-coordinate decodes to a point on the curve,
// then clears the cofactor. See DESIGN.md for why trial-and-increment is
// used here instead of an Elligator2 field map.
func FromUniform(seed []byte) (Point, error) {
	if len(seed) != UniformMapSize {
		return Point{}, errors.Wrapf(ErrSize, "curve: want %d uniform bytes, got %d", UniformMapSize, len(seed))
	}
	return trialIncrement(seed)
}

// FromHash maps 64 bytes onto a point in the prime-order subgroup using
// the same trial-and-increment construction as FromUniform.
func FromHash(seed []byte) (Point, error) {
	if len(seed) != WideMapSize {
		return Point{}, errors.Wrapf(ErrSize, "curve: want %d hash bytes, got %d", WideMapSize, len(seed))
	}
	return trialIncrement(seed)
}

func trialIncrement(seed []byte) (Point, error) {
	buf := make([]byte, len(seed)+1)
	copy(buf, seed)
	for counter := 0; counter < maxTrialIncrement; counter++ {
		buf[len(seed)] = byte(counter)
		digest := sha3.Sum512(buf)
		p, err := new(edwards25519.Point).SetBytes(digest[:32])
		if err == nil {
			p.MultByCofactor(p)
			return Point{raw: toArray(p.Bytes())}, nil
		}
	}
	return Point{}, errors.New("curve: hash-to-point trial-and-increment failed unexpectedly")
}
