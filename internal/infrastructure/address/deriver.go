// Package address implements the Address Deriver (spec component 4.A):
// deterministic, non-custodial derivation of TRON base58 addresses from a
// merchant's stored xPub, plus xPub/address validation.
//
// Deriving the wrong address silently loses customer funds, so every
// failure path here returns errors.AddressDerivationError — never a
// placeholder address.
package address

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	apperrors "paykript/internal/shared/errors"
)

// tronVersionByte is the TRON mainnet address version prefix (addresses
// decode to 0x41 || 20-byte hash || 4-byte checksum).
const tronVersionByte = 0x41

// Deriver computes TRON addresses from a wallet's xPub. It holds no state;
// every call is pure given its inputs.
type Deriver struct{}

func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive computes the TRON base58 address for the non-hardened child at
// path 0/index beneath xpub. prefix is accepted for interface compatibility
// with a wallet's stored derivation_prefix but is not applied: per the
// design notes, the stored prefix already describes the account path
// embedded in the xPub itself, and only the trailing change/index pair
// (change=0) is derived here.
func (d *Deriver) Derive(xpub string, index uint32, prefix string) (string, error) {
	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return "", apperrors.NewAddressDerivationError("malformed xpub", err.Error())
	}
	if key.IsPrivate() {
		return "", apperrors.NewAddressDerivationError("xpub must not contain a private key")
	}

	changeKey, err := key.Derive(0)
	if err != nil {
		return "", apperrors.NewAddressDerivationError("failed to derive change branch", err.Error())
	}
	childKey, err := changeKey.Derive(index)
	if err != nil {
		return "", apperrors.NewAddressDerivationError("failed to derive address index", err.Error())
	}

	pubKey, err := childKey.ECPubKey()
	if err != nil {
		return "", apperrors.NewAddressDerivationError("failed to extract public key", err.Error())
	}

	uncompressed := pubKey.SerializeUncompressed()
	hash := crypto.Keccak256(uncompressed[1:])
	addressBytes := hash[len(hash)-20:]

	payload := append([]byte{tronVersionByte}, addressBytes...)
	checksum := doubleSHA256(payload)
	full := append(payload, checksum[:4]...)

	return base58.Encode(full), nil
}

// ValidateXPub reports whether xpub parses as a public (non-private) BIP32
// extended key. The key's depth and hardened-ness are not checked.
func (d *Deriver) ValidateXPub(xpub string) bool {
	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return false
	}
	return !key.IsPrivate()
}

// ValidateTronAddress reports whether addr is a well-formed TRON base58
// address: starts with 'T', is 34 characters, base58-decodes to 25 bytes
// with version byte 0x41, and carries a valid double-SHA256 checksum.
func ValidateTronAddress(addr string) bool {
	if len(addr) != 34 || addr[0] != 'T' {
		return false
	}
	decoded, err := base58.Decode(addr)
	if err != nil || len(decoded) != 25 {
		return false
	}
	if decoded[0] != tronVersionByte {
		return false
	}
	payload, checksum := decoded[:21], decoded[21:]
	expected := doubleSHA256(payload)
	for i := 0; i < 4; i++ {
		if checksum[i] != expected[i] {
			return false
		}
	}
	return true
}

func doubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}
