package workload

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Mix folds words into a prior word: keccak256 over the 32-byte
// concatenation. Every profile's accumulator chain is built from this one
// primitive, which is what makes a run replayable bit for bit.
func Mix(prior common.Hash, words ...common.Hash) common.Hash {
	buf := make([]byte, 0, 32*(1+len(words)))
	buf = append(buf, prior[:]...)
	for _, w := range words {
		buf = append(buf, w[:]...)
	}
	return crypto.Keccak256Hash(buf)
}

// U64Word encodes a scalar as a 32-byte big-endian word, the form indices,
// timestamps and lengths take inside a mix.
func U64Word(v uint64) common.Hash {
	var h common.Hash
	binary.BigEndian.PutUint64(h[24:], v)
	return h
}

// WordU64 reads the low 8 bytes of a word as a scalar; the storage-only
// profile derives its evolving slot keys from the accumulator this way.
func WordU64(h common.Hash) uint64 {
	return binary.BigEndian.Uint64(h[24:])
}

// XorWords combines two words bitwise, the churn profiles' accumulator fold.
func XorWords(a, b common.Hash) common.Hash {
	var out common.Hash
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// SeedSink derives the genesis accumulator word from a run seed, so distinct
// seeds produce disjoint traces from the very first call.
func SeedSink(seed uint64) common.Hash {
	return Mix(common.Hash{}, U64Word(seed))
}
