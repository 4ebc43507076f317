package service

import (
	"errors"
	"strings"
	"testing"
)

func TestChecksumAddress(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range vectors {
		if got := ChecksumAddress(strings.ToLower(want)); got != want {
			t.Errorf("ChecksumAddress = %s, want %s", got, want)
		}
	}
}

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name string
		addr string
		ok   bool
	}{
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"all lower", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"all upper", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", true},
		{"bad checksum", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"no prefix", "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00", false},
		{"short", "0x1234", false},
		{"not hex", "0xZZZeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWalletAddress(tt.addr)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected input error, got %v", err)
			}
		})
	}
}
