package order

import (
	"crypto/rand"
	"math/big"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomBase36(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		out[i] = base36[idx.Int64()]
	}

	return string(out)
}

// NewOrderNumber generates a human-readable order number of the form
// <prefix>-<datestamp>-<4-char base36 suffix>. Uniqueness is enforced by the
// database; a collision triggers one regeneration.
func NewOrderNumber(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("20060102") + "-" + randomBase36(4)
}

// NewDeliveryCode generates the secret the driver must present to confirm
// delivery. It is not derivable from any other order field.
func NewDeliveryCode() string {
	return randomBase36(8)
}
