package onetime

import (
	"github.com/ringsig/cryptonote/curve"
	"github.com/ringsig/cryptonote/scalar"
)

// RingSignature carries the ring of public keys a message was signed
// against, the signer's key image, and the two parallel challenge/response
// scalar rings. The signer's index is never recorded.
type RingSignature struct {
	PublicKeys []PublicKey
	KeyImage   curve.Point
	C          []scalar.Scalar
	R          []scalar.Scalar
}

// clone returns a RingSignature that owns its own copies of every slice,
// so that mutating the caller's inputs after signing cannot affect the
// returned value.
func (sig RingSignature) clone() RingSignature {
	out := RingSignature{
		PublicKeys: make([]PublicKey, len(sig.PublicKeys)),
		KeyImage:   sig.KeyImage,
		C:          make([]scalar.Scalar, len(sig.C)),
		R:          make([]scalar.Scalar, len(sig.R)),
	}
	copy(out.PublicKeys, sig.PublicKeys)
	copy(out.C, sig.C)
	copy(out.R, sig.R)
	return out
}

// RingSign produces a ring signature for message, proving that the
// signer holds the private key behind publicKeys[keyIndex] without
// revealing which ring position that is. The caller is responsible for
// shuffling the ring beforehand; RingSign neither shuffles nor checks for
// duplicate entries. It never fails given a valid keyIndex and a
// correctly seeded CSPRNG: a mismatch between privateKey and
// publicKeys[keyIndex] is not checked here and instead produces a
// signature that simply fails to verify.
func RingSign(message []byte, publicKeys []PublicKey, privateKey PrivateKey, keyIndex int) (RingSignature, error) {
	n := len(publicKeys)
	if n == 0 {
		return RingSignature{}, ErrEmptyRing
	}
	if keyIndex < 0 || keyIndex >= n {
		return RingSignature{}, ErrInvalidKeyIndex
	}

	I, err := privateKey.KeyImage()
	if err != nil {
		return RingSignature{}, err
	}

	hp := make([]curve.Point, n)
	for i, pk := range publicKeys {
		hp[i], err = pk.P.HashToPoint(curve.DefaultHash)
		if err != nil {
			return RingSignature{}, err
		}
	}

	q := make([]scalar.Scalar, n)
	w := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		q[i], err = scalar.Random()
		if err != nil {
			return RingSignature{}, err
		}
		if i == keyIndex {
			continue
		}
		w[i], err = scalar.Random()
		if err != nil {
			return RingSignature{}, err
		}
	}

	buf := append([]byte(nil), message...)
	sigma := scalar.Zero()
	for i := 0; i < n; i++ {
		var left, right curve.Point
		if i == keyIndex {
			left = curve.BaseMul(q[i])
			right = hp[i].ScalarMul(q[i])
		} else {
			left = curve.BaseMul(q[i]).Add(publicKeys[i].P.ScalarMul(w[i]))
			right = hp[i].ScalarMul(q[i]).Add(I.ScalarMul(w[i]))
			sigma = sigma.Add(w[i])
		}
		buf = append(buf, left.Bytes()...)
		buf = append(buf, right.Bytes()...)
	}

	e, err := curve.HashToScalar(buf, curve.DefaultHash)
	if err != nil {
		return RingSignature{}, err
	}

	c := make([]scalar.Scalar, n)
	r := make([]scalar.Scalar, n)
	copy(c, w)
	copy(r, q)
	c[keyIndex] = e.Sub(sigma)
	r[keyIndex] = q[keyIndex].Sub(c[keyIndex].Mul(privateKey.x))
	for i := range q {
		q[i].Zeroize()
		w[i].Zeroize()
	}

	sig := RingSignature{PublicKeys: publicKeys, KeyImage: I, C: c, R: r}
	return sig.clone(), nil
}

// RingVerify reports whether sig is a valid ring signature for message.
// It never returns an error: a structurally malformed signature (ring
// length mismatches, an empty ring) simply fails to verify, exactly like
// any other tampering.
func RingVerify(message []byte, sig RingSignature) bool {
	n := len(sig.PublicKeys)
	if n == 0 || len(sig.C) != n || len(sig.R) != n {
		return false
	}

	buf := append([]byte(nil), message...)
	sigma := scalar.Zero()
	for i := 0; i < n; i++ {
		hp, err := sig.PublicKeys[i].P.HashToPoint(curve.DefaultHash)
		if err != nil {
			return false
		}
		left := curve.BaseMul(sig.R[i]).Add(sig.PublicKeys[i].P.ScalarMul(sig.C[i]))
		right := hp.ScalarMul(sig.R[i]).Add(sig.KeyImage.ScalarMul(sig.C[i]))
		buf = append(buf, left.Bytes()...)
		buf = append(buf, right.Bytes()...)
		sigma = sigma.Add(sig.C[i])
	}

	e, err := curve.HashToScalar(buf, curve.DefaultHash)
	if err != nil {
		return false
	}
	return e.Sub(sigma).IsZero()
}
