package chain

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyLength Solana 公钥长度
const PublicKeyLength = 32

var ErrInvalidAddress = errors.New("invalid solana address")

// ValidateAddress 校验 base58 编码的 Solana 地址
func ValidateAddress(address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	raw, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != PublicKeyLength {
		return fmt.Errorf("%w: decoded length %d", ErrInvalidAddress, len(raw))
	}
	return nil
}

// EncodeAddress 公钥编码为地址
func EncodeAddress(pubKey [PublicKeyLength]byte) string {
	return base58.Encode(pubKey[:])
}
