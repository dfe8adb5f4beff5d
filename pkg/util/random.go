package util

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberTimeLayout = "20060102150405"

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// GenerateOrderNumber builds ORD-<YYYYMMDDHHMMSS>-<4 digits>.
// The suffix is random and uniqueness is left to the database index.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format(orderNumberTimeLayout), GenerateRandomNumber(1000, 9999))
}
