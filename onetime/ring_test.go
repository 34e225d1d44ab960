package onetime

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/ringsig/cryptonote/scalar"
)

func mustGenerate(t *testing.T) PrivateKey {
	t.Helper()
	sk, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return sk
}

func buildRing(t *testing.T, n, signerIndex int) ([]PublicKey, PrivateKey) {
	t.Helper()
	keys := make([]PublicKey, n)
	var signer PrivateKey
	for i := 0; i < n; i++ {
		sk := mustGenerate(t)
		keys[i] = sk.PublicKey()
		if i == signerIndex {
			signer = sk
		}
	}
	return keys, signer
}

func TestRingSignVerifyRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 100} {
		n := n
		t.Run("", func(t *testing.T) {
			keys, signer := buildRing(t, n, 0)
			msg := []byte("hello")
			sig, err := RingSign(msg, keys, signer, 0)
			if err != nil {
				t.Fatalf("RingSign: %v", err)
			}
			if !RingVerify(msg, sig) {
				t.Fatal("valid ring signature failed to verify")
			}
		})
	}
}

func TestRingSignVerifySignerNotZero(t *testing.T) {
	keys, signer := buildRing(t, 3, 1)
	msg := []byte{}
	sig, err := RingSign(msg, keys, signer, 1)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	if !RingVerify(msg, sig) {
		t.Fatal("valid ring signature failed to verify")
	}

	reversed := sig.clone()
	for i, j := 0, len(reversed.PublicKeys)-1; i < j; i, j = i+1, j-1 {
		reversed.PublicKeys[i], reversed.PublicKeys[j] = reversed.PublicKeys[j], reversed.PublicKeys[i]
	}
	if RingVerify(msg, reversed) {
		t.Fatal("reversed public key ring should not verify")
	}
}

func TestTamperResistance(t *testing.T) {
	keys, signer := buildRing(t, 3, 1)
	msg := []byte("ring signature message")
	sig, err := RingSign(msg, keys, signer, 1)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	if !RingVerify(msg, sig) {
		t.Fatal("baseline signature should verify")
	}

	t.Run("message", func(t *testing.T) {
		tampered := append([]byte(nil), msg...)
		tampered[0] ^= 0xFF
		if RingVerify(tampered, sig) {
			t.Fatal("tampered message should not verify")
		}
	})

	t.Run("key image", func(t *testing.T) {
		tampered := sig.clone()
		tampered.KeyImage = tampered.KeyImage.Add(tampered.KeyImage)
		if RingVerify(msg, tampered) {
			t.Fatal("doubled key image should not verify")
		}
	})

	t.Run("c", func(t *testing.T) {
		for i := range sig.C {
			tampered := sig.clone()
			tampered.C[i] = tampered.C[i].Add(scalar.One())
			if RingVerify(msg, tampered) {
				t.Fatalf("incremented c[%d] should not verify", i)
			}
		}
	})

	t.Run("r", func(t *testing.T) {
		for i := range sig.R {
			tampered := sig.clone()
			tampered.R[i] = tampered.R[i].Add(scalar.One())
			if RingVerify(msg, tampered) {
				t.Fatalf("incremented r[%d] should not verify", i)
			}
		}
	})
}

func TestLinkability(t *testing.T) {
	sk := mustGenerate(t)
	other := mustGenerate(t)

	keysA, _ := buildRing(t, 2, 0)
	keysA[0] = sk.PublicKey()
	keysB, _ := buildRing(t, 2, 1)
	keysB[1] = sk.PublicKey()

	sigA, err := RingSign([]byte("message A"), keysA, sk, 0)
	if err != nil {
		t.Fatal(err)
	}
	sigB, err := RingSign([]byte("message B"), keysB, sk, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !sigA.KeyImage.Equal(sigB.KeyImage) {
		t.Fatal("signatures by the same key should share a key image")
	}

	sigOther, err := RingSign([]byte("message A"), keysA, other, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sigA.KeyImage.Equal(sigOther.KeyImage) {
		t.Fatal("signatures by different keys should (overwhelmingly likely) differ in key image")
	}
}

// TestAnonymitySmokeTest is the spec's "with N = 10, signing at index 0
// and at index 5 using two different keys produce signatures whose (c, r)
// distributions are statistically indistinguishable" sanity check, not a
// cryptographic proof: it compares the average leading byte of every c and
// r scalar across many signatures against the uniform mean, for both
// signer positions.
func TestAnonymitySmokeTest(t *testing.T) {
	const n = 10
	const trials = 500

	keysA, signerA := buildRing(t, n, 0)
	keysB, signerB := buildRing(t, n, 5)

	meanLeadingByte := func(keys []PublicKey, signer PrivateKey, index int) float64 {
		var sum, count int
		for i := 0; i < trials; i++ {
			sig, err := RingSign([]byte("anonymity smoke test"), keys, signer, index)
			if err != nil {
				t.Fatalf("RingSign: %v", err)
			}
			for j := 0; j < n; j++ {
				sum += int(sig.C[j].Bytes()[0]) + int(sig.R[j].Bytes()[0])
				count += 2
			}
		}
		return float64(sum) / float64(count)
	}

	meanA := meanLeadingByte(keysA, signerA, 0)
	meanB := meanLeadingByte(keysB, signerB, 5)

	const uniformMean = 127.5
	const tolerance = 12.0
	if diff := meanA - uniformMean; diff < -tolerance || diff > tolerance {
		t.Errorf("signing at index 0: mean leading byte %.2f too far from uniform %.2f", meanA, uniformMean)
	}
	if diff := meanB - uniformMean; diff < -tolerance || diff > tolerance {
		t.Errorf("signing at index 5: mean leading byte %.2f too far from uniform %.2f", meanB, uniformMean)
	}
	if diff := meanA - meanB; diff < -tolerance || diff > tolerance {
		t.Errorf("(c, r) distributions differ by signer index: %.2f (index 0) vs %.2f (index 5)", meanA, meanB)
	}
}

func TestInvalidKeyIndex(t *testing.T) {
	keys, signer := buildRing(t, 2, 0)
	if _, err := RingSign([]byte("m"), keys, signer, 2); err == nil {
		t.Fatal("out-of-range key index should error")
	}
	if _, err := RingSign([]byte("m"), nil, signer, 0); err == nil {
		t.Fatal("empty ring should error")
	}
}

func TestLargeRingRandomMessage(t *testing.T) {
	keys, signer := buildRing(t, 100, 0)
	msg := make([]byte, 500)
	if _, err := rand.Read(msg); err != nil {
		t.Fatal(err)
	}
	sig, err := RingSign(msg, keys, signer, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !RingVerify(msg, sig) {
		t.Fatal("100-key ring signature failed to verify")
	}
	if !bytes.Equal(sig.PublicKeys[0].Bytes(), keys[0].Bytes()) {
		t.Fatal("public keys should round-trip through the signature")
	}
}
