package voucher

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewRewardCode generates the code for a voucher minted by a loyalty
// redemption.
func NewRewardCode() string {
	out := make([]byte, 8)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = codeAlphabet[idx.Int64()]
	}

	return "RWD-" + string(out)
}
