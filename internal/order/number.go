package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumberPrefix = "ORD"

const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber builds a human-readable order number from the
// current timestamp and a short random suffix. Uniqueness is enforced
// by the orders.order_number constraint; callers retry on collision.
func GenerateOrderNumber() string {
	now := time.Now().UTC()

	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt(now.UnixNano() >> i & int64(len(suffixAlphabet)-1))
		}
		suffix[i] = suffixAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.Format("20060102150405"), suffix)
}
