package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tempPasswordMinLen = 10
	tempPasswordMaxLen = 20
	tempPasswordAlpha  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// generateTempPassword returns a random string of A-Z letters whose length
// lies in [tempPasswordMinLen, tempPasswordMaxLen].
func generateTempPassword() (string, error) {
	span := big.NewInt(tempPasswordMaxLen - tempPasswordMinLen + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("temp password length: %w", err)
	}
	length := tempPasswordMinLen + int(n.Int64())

	alpha := big.NewInt(int64(len(tempPasswordAlpha)))
	b := make([]byte, length)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alpha)
		if err != nil {
			return "", fmt.Errorf("temp password: %w", err)
		}
		b[i] = tempPasswordAlpha[idx.Int64()]
	}
	return string(b), nil
}
