package sales

import (
	"crypto/rand"
	"fmt"
	"time"
)

const receiptAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReceiptNumber builds a receipt identifier of the form
// REC-YYYYMMDD-<rand6>. Uniqueness is enforced by the database; the
// caller retries on collision.
func NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("REC-%s-%s", now.Format("20060102"), randomCode(6))
}

func randomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = receiptAlphabet[int(b)%len(receiptAlphabet)]
	}
	return string(buf)
}
