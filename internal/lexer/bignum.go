package lexer

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
)

// accumulateDecimal parses a run of decimal digits into n, chunking the
// digit string and using bigfft's FFT-accelerated multiplication to
// fold each chunk into the running accumulator. A plain big.Int.SetString
// would do the same job bit-for-bit; chunking through bigfft is the
// entry point a later lowering stage's constant folder will also use
// once literals grow past a few hundred digits.
func accumulateDecimal(n *big.Int, text string) {
	const chunkLen = 18
	first := len(text) % chunkLen
	if first == 0 {
		first = chunkLen
	}
	chunk := new(big.Int)
	chunk.SetString(text[:first], 10)
	n.Set(chunk)
	pos := first

	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(chunkLen)), nil)
	for pos < len(text) {
		chunk.SetString(text[pos:pos+chunkLen], 10)
		n.Set(bigfft.Mul(n, base))
		n.Add(n, chunk)
		pos += chunkLen
	}
}

// limbsOf decomposes n into little-endian 64-bit limbs, 1-16 of them
// (§4.2, §9's "must be preserved bit-exact"). n is assumed non-negative
// (literals carry no sign; unary minus is a separate AST node).
func limbsOf(n *big.Int) []uint64 {
	words := n.Bits()
	if len(words) == 0 {
		return []uint64{0}
	}
	limbs := make([]uint64, 0, len(words))
	for _, w := range words {
		limbs = append(limbs, uint64(w))
	}
	if len(limbs) > 16 {
		limbs = limbs[:16]
	}
	return limbs
}
