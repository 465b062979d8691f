package wallet

import "context"

// Repository is the Store Gateway's transactional surface over Wallet rows.
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	Update(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, merchantID, id uint) (*Wallet, error)
	GetActiveByMerchant(ctx context.Context, merchantID uint) (*Wallet, error)
	List(ctx context.Context, merchantID uint) ([]*Wallet, error)

	// AllocateNextAddress atomically increments the wallet's address_index
	// under a row lock (SELECT ... FOR UPDATE) and returns the newly
	// allocated index along with the refreshed wallet. Must be called
	// within the same transaction as the payment-request insert so an
	// allocated index is never orphaned on failure.
	AllocateNextAddress(ctx context.Context, walletID uint) (uint32, *Wallet, error)

	// DeactivateSiblings deactivates every other wallet owned by merchantID,
	// used when activating a new wallet.
	DeactivateSiblings(ctx context.Context, merchantID, exceptWalletID uint) error
}
