package service

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrInvalidWallet is returned for malformed or mis-checksummed addresses
var ErrInvalidWallet = invalidInput("A valid wallet address is required")

// ValidateWalletAddress accepts a 0x-prefixed 20 byte hex address. Mixed
// case addresses must carry a valid EIP-55 checksum.
func ValidateWalletAddress(addr string) error {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return ErrInvalidWallet
	}
	body := addr[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return ErrInvalidWallet
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if ChecksumAddress(addr) != addr {
		return ErrInvalidWallet
	}
	return nil
}

// ChecksumAddress returns the EIP-55 mixed case form of a hex address
func ChecksumAddress(addr string) string {
	lower := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}
