package twocats

import (
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"strings"

	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

// HashType selects the cryptographic primitive a HashProvider wraps. PreHash,
// Expand and rehash work at the primitive's native word length (size/4); the
// memory engine's own per-thread state stays at engineStateWords whatever the
// choice.
type HashType uint8

const (
	BLAKE2S HashType = iota
	BLAKE2B
	SHA256
	SHA512
)

func (t HashType) String() string {
	switch t {
	case BLAKE2S:
		return "blake2s"
	case BLAKE2B:
		return "blake2b"
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// ParseHashType looks up a HashType by its String() name, case-insensitively.
// Used by the CLI to turn an --algorithm flag into a HashType.
func ParseHashType(name string) (HashType, bool) {
	switch strings.ToLower(name) {
	case "blake2s":
		return BLAKE2S, true
	case "blake2b":
		return BLAKE2B, true
	case "sha256":
		return SHA256, true
	case "sha512":
		return SHA512, true
	default:
		return 0, false
	}
}

// size returns the HashProvider's native digest length in bytes.
func (t HashType) size() int {
	switch t {
	case BLAKE2S, SHA256:
		return 32
	case BLAKE2B, SHA512:
		return 64
	default:
		return 0
	}
}

// wordLen is size() expressed in 32-bit words: the width of the PreHash
// output and of the states Extract produces. The memory engine does not use
// it; its state is fixed at engineStateWords (see below and DESIGN.md).
func (t HashType) wordLen() int { return t.size() / 4 }

func (t HashType) valid() bool { return t.size() != 0 }

// newDigest constructs the stdlib/ecosystem hash.Hash backing a HashType.
func newDigest(t HashType) (hash.Hash, error) {
	switch t {
	case BLAKE2S:
		h, err := blake2s.New256(nil)
		if err != nil {
			return nil, wrapErr(ErrHashFailed, "blake2s init", err)
		}
		return h, nil
	case BLAKE2B:
		h, err := blake2b.New512(nil)
		if err != nil {
			return nil, wrapErr(ErrHashFailed, "blake2b init", err)
		}
		return h, nil
	case SHA256:
		return sha256simd.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, invalidParams("unknown hash type")
	}
}

// encodeWords big-endian-encodes a slice of 32-bit words into bytes.
func encodeWords(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

// decodeWords big-endian-decodes bytes into 32-bit words. len(b) must be a
// multiple of 4.
func decodeWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[4*i:])
	}
	return words
}

// extractWords is the HashProvider's Extract operation: a one-shot
// Init/Update(parts...)/Final collapsing an arbitrary number of byte strings
// down to exactly wordLen() words.
func extractWords(t HashType, parts ...[]byte) ([]uint32, error) {
	d, err := newDigest(t)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if _, err := d.Write(p); err != nil {
			return nil, wrapErr(ErrHashFailed, "extract update", err)
		}
	}
	return decodeWords(d.Sum(nil)), nil
}

// rekey re-keys a state of arbitrary word length with a 32-bit counter,
// returning a fresh state of wordLen() words. This is the building block
// behind Expand and the server-relief Hash op, which both need to carry a
// full H.len()-word state across chunks.
func rekey(t HashType, state []uint32, ctr uint32) ([]uint32, error) {
	d, err := newDigest(t)
	if err != nil {
		return nil, err
	}
	if _, err := d.Write(encodeWords(state)); err != nil {
		return nil, wrapErr(ErrHashFailed, "rekey update", err)
	}
	var ctrBuf [4]byte
	binary.BigEndian.PutUint32(ctrBuf[:], ctr)
	if _, err := d.Write(ctrBuf[:]); err != nil {
		return nil, wrapErr(ErrHashFailed, "rekey counter", err)
	}
	return decodeWords(d.Sum(nil)), nil
}

// engineStateWords is the fixed width of the memory engine's internal
// per-thread/per-block state, independent of the HashProvider in use. See
// DESIGN.md: tigerkdf.c kept its engine hash-agnostic by collapsing whatever
// outer hash produced the seed down to a constant 8-word/32-byte state
// (hashTo256) and working purely in that space internally via a fixed
// 32-byte hashWithSalt. We follow the same separation: H.size varies the
// PreHash/Expand stages, never the engine's own accumulator width.
const engineStateWords = 8

// hashState8 is the engine-internal analogue of tigerkdf-impl.h's
// hashWithSalt: re-key an 8-word state with a 32-bit salt. When H.size is
// larger than 32 bytes (BLAKE2B, SHA512) only the first 8 words of the
// digest become the new state; the rest is discarded.
func hashState8(t HashType, state [engineStateWords]uint32, salt uint32) ([engineStateWords]uint32, error) {
	d, err := newDigest(t)
	if err != nil {
		return state, err
	}
	if _, err := d.Write(encodeWords(state[:])); err != nil {
		return state, wrapErr(ErrHashFailed, "hashState8 update", err)
	}
	var saltBuf [4]byte
	binary.BigEndian.PutUint32(saltBuf[:], salt)
	if _, err := d.Write(saltBuf[:]); err != nil {
		return state, wrapErr(ErrHashFailed, "hashState8 salt", err)
	}
	digest := d.Sum(nil)
	var out [engineStateWords]uint32
	words := decodeWords(digest[:4*engineStateWords])
	copy(out[:], words)
	return out, nil
}

// hashTo8 collapses an initial state of arbitrary word length (the PreHash
// output, H.len() words) down to the engine's fixed 8-word seed. Grounded on
// tigerkdf-impl.h's hashTo256.
func hashTo8(t HashType, initial []uint32) ([engineStateWords]uint32, error) {
	var out [engineStateWords]uint32
	d, err := newDigest(t)
	if err != nil {
		return out, err
	}
	if _, err := d.Write(encodeWords(initial)); err != nil {
		return out, wrapErr(ErrHashFailed, "hashTo8 update", err)
	}
	digest := d.Sum(nil)
	copy(out[:], decodeWords(digest[:4*engineStateWords]))
	return out, nil
}

// expandBytes is the HashProvider's Expand operation: stretch a fixed-size
// state out to an arbitrary-length byte buffer by rehashing with an
// increasing chunk counter, each chunk rekeying on the one before it. The
// first chunk depends only on the state, so it equals a standalone
// one-chunk expansion of the same state; outputs of different lengths
// differ only because PreHash absorbs HashSize into the state.
func expandBytes(t HashType, out []byte, state []uint32) error {
	size := t.size()
	cur := append([]uint32(nil), state...)
	for off := 0; off < len(out); off += size {
		next, err := rekey(t, cur, uint32(off/size))
		if err != nil {
			return err
		}
		copy(out[off:], encodeWords(next))
		cur = next
	}
	return nil
}

// rehash is the HashProvider's "Hash" server-relief primitive: a one-shot
// hash of buf onto itself. Internally this is Extract followed by Expand, so
// a 64-byte buf rehashes as cleanly as a 4096-byte one; see DESIGN.md for why
// this reconciliation was necessary to satisfy the variable hashSize output
// the original C single-width buffers never had to support.
func rehash(t HashType, buf []byte) error {
	state, err := extractWords(t, buf)
	if err != nil {
		return err
	}
	return expandBytes(t, buf, state)
}
