// Package ringpem implements the canonical DER and PEM encoding of a ring
// signature, per spec §4.5: a fixed-order DER sequence (algorithm OID,
// key image, public keys, c, r) wrapped in PEM with the "RING SIGNATURE"
// markers.
package ringpem

import (
	"encoding/asn1"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"

	"github.com/ringsig/cryptonote/curve"
	"github.com/ringsig/cryptonote/onetime"
	"github.com/ringsig/cryptonote/scalar"
)

const (
	pemOpening = "-----BEGIN RING SIGNATURE-----"
	pemClosing = "-----END RING SIGNATURE-----"

	// wrapColumn is the column at which the base64 DER body is wrapped,
	// matching the standard PEM convention encoding/pem also uses.
	wrapColumn = 64
)

// algorithmOID identifies this scheme following Recommendation ITU-T
// X.667: the arc {2 25} followed by the 16 bytes of the UUID
// 3b5e61af-c4ec-496e-95e9-4b64bccdc809, each byte its own sub-identifier.
var algorithmOID = asn1.ObjectIdentifier{
	2, 25,
	0x3b, 0x5e, 0x61, 0xaf, 0xc4, 0xec, 0x49, 0x6e,
	0x95, 0xe9, 0x4b, 0x64, 0xbc, 0xcd, 0xc8, 0x09,
}

// ErrInvalidEncoding is returned for every malformed-input case listed in
// spec §7: marker mismatches, non-whitespace outside the markers, trailing
// DER bytes, a wrong OID, wrong-length octet strings, and mismatched ring
// lengths.
var ErrInvalidEncoding = errors.New("ringpem: invalid encoding")

// derSignature is the ASN.1 shape of §4.5: an algorithm identifier
// followed by the key image, the ring of public keys, and the two scalar
// rings, each as a SEQUENCE OF fixed-length OCTET STRING.
type derSignature struct {
	Algorithm  asn1.ObjectIdentifier
	KeyImage   []byte
	PublicKeys [][]byte
	C          [][]byte
	R          [][]byte
}

// ExportPEM encodes sig as PEM-wrapped DER.
func ExportPEM(sig onetime.RingSignature) (string, error) {
	d := derSignature{
		Algorithm:  algorithmOID,
		KeyImage:   sig.KeyImage.Bytes(),
		PublicKeys: make([][]byte, len(sig.PublicKeys)),
		C:          make([][]byte, len(sig.C)),
		R:          make([][]byte, len(sig.R)),
	}
	for i, pk := range sig.PublicKeys {
		d.PublicKeys[i] = pk.Bytes()
	}
	for i, c := range sig.C {
		d.C[i] = c.Bytes()
	}
	for i, r := range sig.R {
		d.R[i] = r.Bytes()
	}

	der, err := asn1.Marshal(d)
	if err != nil {
		return "", errors.Wrap(err, "ringpem: marshal DER")
	}

	encoded := base64.StdEncoding.EncodeToString(der)
	var lines []string
	for len(encoded) > 0 {
		n := wrapColumn
		if n > len(encoded) {
			n = len(encoded)
		}
		lines = append(lines, encoded[:n])
		encoded = encoded[n:]
	}

	var out strings.Builder
	out.WriteString(pemOpening)
	out.WriteByte('\n')
	for _, line := range lines {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString(pemClosing)
	return out.String(), nil
}

// ImportPEM decodes a PEM-wrapped DER ring signature, enforcing every
// Import MUST-reject case in spec §7.
func ImportPEM(pemText string) (onetime.RingSignature, error) {
	trimmed := strings.TrimSpace(pemText)
	if !strings.HasPrefix(trimmed, pemOpening) || !strings.HasSuffix(trimmed, pemClosing) {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: missing or malformed PEM markers")
	}

	body := trimmed[len(pemOpening) : len(trimmed)-len(pemClosing)]
	body = strings.Map(func(r rune) rune {
		if strings.ContainsRune(" \t\r\n\v\f", r) {
			return -1
		}
		return r
	}, body)

	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: invalid base64 body")
	}

	var d derSignature
	rest, err := asn1.Unmarshal(der, &d)
	if err != nil {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: invalid DER structure")
	}
	if len(rest) != 0 {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: trailing bytes after DER structure")
	}

	if !d.Algorithm.Equal(algorithmOID) {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: unrecognized algorithm OID")
	}

	n := len(d.PublicKeys)
	if n == 0 || len(d.C) != n || len(d.R) != n {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: mismatched ring lengths")
	}

	keyImage, err := curve.FromBytes(d.KeyImage)
	if err != nil {
		return onetime.RingSignature{}, errors.Wrap(ErrInvalidEncoding, "ringpem: invalid key image")
	}

	sig := onetime.RingSignature{
		KeyImage:   keyImage,
		PublicKeys: make([]onetime.PublicKey, n),
		C:          make([]scalar.Scalar, n),
		R:          make([]scalar.Scalar, n),
	}
	for i := 0; i < n; i++ {
		pk, err := onetime.PublicKeyFromBytes(d.PublicKeys[i])
		if err != nil {
			return onetime.RingSignature{}, errors.Wrapf(ErrInvalidEncoding, "ringpem: invalid public key %d", i)
		}
		sig.PublicKeys[i] = pk

		c, err := scalar.FromBytes(d.C[i])
		if err != nil {
			return onetime.RingSignature{}, errors.Wrapf(ErrInvalidEncoding, "ringpem: invalid c[%d]", i)
		}
		sig.C[i] = c

		r, err := scalar.FromBytes(d.R[i])
		if err != nil {
			return onetime.RingSignature{}, errors.Wrapf(ErrInvalidEncoding, "ringpem: invalid r[%d]", i)
		}
		sig.R[i] = r
	}

	return sig, nil
}
