package utils

import (
	"math/rand"
	"strconv"
)

// GenerateVerificationCode returns a six digit code in [100000, 999999].
func GenerateVerificationCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
