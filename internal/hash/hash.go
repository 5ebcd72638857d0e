// Package hash computes the content digests that back module integrity
// verification. A digest is a SHA-256 fingerprint of raw file bytes: the same
// content always yields the same digest, regardless of where or when it is
// computed. The threat model is accidental corruption and naive tampering,
// not adversarial preimage attacks.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// Digest is a fixed-length content fingerprint. Digests are comparable with
// == and carry no ordering semantics.
type Digest [Size]byte

// Sum computes the digest of a byte sequence.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// SumFile reads the file at path from fsys and computes the digest of its
// content.
func SumFile(fsys billy.Filesystem, path string) (Digest, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return Digest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Sum(data), nil
}

// Hex returns the lowercase hexadecimal form of the digest, the encoding used
// in the persisted ledger.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return d.Hex()
}

// ParseHex decodes a digest from its hexadecimal form.
func ParseHex(s string) (Digest, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	if len(raw) != Size {
		return Digest{}, fmt.Errorf("invalid digest %q: got %d bytes, want %d", s, len(raw), Size)
	}
	var d Digest
	copy(d[:], raw)
	return d, nil
}
