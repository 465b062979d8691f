// Package wallet holds the Wallet aggregate: a merchant's registered xPub
// and the monotonic address-index counter used to derive fresh deposit
// addresses (spec component 4.A's input).
package wallet

import (
	"fmt"
	"time"

	"paykript/internal/shared/biztime"
)

// NetworkTron is the only network this gateway supports.
const NetworkTron = "tron"

// Wallet carries a merchant's xPub, the BIP32 account prefix it was derived
// under, and the last address index issued from it. At most one wallet per
// merchant is Active.
type Wallet struct {
	id               uint
	merchantID       uint
	name             string
	xpub             string
	network          string
	derivationPrefix string
	addressIndex     uint32
	active           bool

	createdAt time.Time
	updatedAt time.Time
}

func NewWallet(merchantID uint, name, xpub, derivationPrefix string) (*Wallet, error) {
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if xpub == "" {
		return nil, fmt.Errorf("xpub is required")
	}
	now := biztime.NowUTC()
	return &Wallet{
		merchantID:       merchantID,
		name:             name,
		xpub:             xpub,
		network:          NetworkTron,
		derivationPrefix: derivationPrefix,
		addressIndex:     0,
		active:           false,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Activate marks this wallet active. The caller (application layer) is
// responsible for deactivating siblings within the same transaction, since
// "at most one active wallet per merchant" is a cross-aggregate invariant.
func (w *Wallet) Activate() {
	w.active = true
	w.updatedAt = biztime.NowUTC()
}

func (w *Wallet) Deactivate() {
	w.active = false
	w.updatedAt = biztime.NowUTC()
}

// NextIndex advances the address-index counter by one and returns the new
// value. The repository is expected to apply this under a row lock so that
// concurrent allocations never observe the same pre-increment value.
func (w *Wallet) NextIndex() uint32 {
	w.addressIndex++
	w.updatedAt = biztime.NowUTC()
	return w.addressIndex
}

func (w *Wallet) ID() uint                 { return w.id }
func (w *Wallet) MerchantID() uint         { return w.merchantID }
func (w *Wallet) Name() string             { return w.name }
func (w *Wallet) XPub() string             { return w.xpub }
func (w *Wallet) Network() string          { return w.network }
func (w *Wallet) DerivationPrefix() string { return w.derivationPrefix }
func (w *Wallet) AddressIndex() uint32     { return w.addressIndex }
func (w *Wallet) Active() bool             { return w.active }
func (w *Wallet) CreatedAt() time.Time     { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time     { return w.updatedAt }

func (w *Wallet) SetID(id uint) { w.id = id }

func ReconstructWallet(id, merchantID uint, name, xpub, network, derivationPrefix string, addressIndex uint32, active bool, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		id:               id,
		merchantID:       merchantID,
		name:             name,
		xpub:             xpub,
		network:          network,
		derivationPrefix: derivationPrefix,
		addressIndex:     addressIndex,
		active:           active,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}
