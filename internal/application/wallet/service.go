// Package wallet implements the merchant-facing wallet CRUD surface: xPub
// registration and the "at most one active wallet per merchant" invariant
// from the data model (§3). Address derivation itself belongs to the
// Address Deriver (internal/infrastructure/address); this service only
// validates the xPub shape before persisting it.
package wallet

import (
	"context"
	"fmt"

	"paykript/internal/domain/wallet"
	"paykript/internal/shared/db"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/logger"
)

// XPubValidator checks that a stored xPub is a well-formed, non-private
// BIP32 extended public key. Satisfied by address.Deriver.
type XPubValidator interface {
	ValidateXPub(xpub string) bool
}

// PaymentOpenChecker reports whether a wallet has any non-final payment
// requests depending on it, used to guard deactivation-by-replacement.
// Satisfied directly by payment.Repository.
type PaymentOpenChecker interface {
	HasOpenPaymentsForWallet(ctx context.Context, walletID uint) (bool, error)
}

type CreateInput struct {
	Name             string
	XPub             string
	DerivationPrefix string
	Activate         bool
}

type Service struct {
	wallets      wallet.Repository
	validator    XPubValidator
	openPayments PaymentOpenChecker
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewService(wallets wallet.Repository, validator XPubValidator, openPayments PaymentOpenChecker, txManager *db.TransactionManager, log logger.Interface) *Service {
	return &Service{wallets: wallets, validator: validator, openPayments: openPayments, txManager: txManager, logger: log}
}

// Create registers a new wallet. Per the design notes' open question, a
// non-default derivation prefix is rejected explicitly rather than silently
// ignored, since derivation always applies 0/index beneath the xPub as-is.
func (s *Service) Create(ctx context.Context, merchantID uint, in CreateInput) (*wallet.Wallet, error) {
	if in.DerivationPrefix != "" && in.DerivationPrefix != "m" && in.DerivationPrefix != "m/" {
		return nil, apperrors.NewValidationError(
			"non-default derivation_prefix is not supported",
			"this gateway always derives the change/index pair (0/index) directly beneath the stored xpub",
		)
	}
	if !s.validator.ValidateXPub(in.XPub) {
		return nil, apperrors.NewValidationError("invalid xpub")
	}

	w, err := wallet.NewWallet(merchantID, in.Name, in.XPub, in.DerivationPrefix)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.wallets.Create(ctx, w); err != nil {
			return err
		}
		if in.Activate {
			w.Activate()
			if err := s.wallets.DeactivateSiblings(ctx, merchantID, w.ID()); err != nil {
				return err
			}
			if err := s.wallets.Update(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.logger.Infow("wallet created", "merchant_id", merchantID, "wallet_id", w.ID())
	return w, nil
}

// Activate marks w active and deactivates every sibling wallet within the
// same transaction, preserving "at most one active wallet per merchant".
// Refuses with Conflict if the currently active sibling still has open
// payment requests depending on it.
func (s *Service) Activate(ctx context.Context, merchantID, walletID uint) (*wallet.Wallet, error) {
	var activated *wallet.Wallet
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		w, err := s.wallets.GetByID(ctx, merchantID, walletID)
		if err != nil {
			return err
		}
		if w == nil {
			return apperrors.NewNotFoundError("wallet not found")
		}

		current, err := s.wallets.GetActiveByMerchant(ctx, merchantID)
		if err != nil {
			return err
		}
		if current != nil && current.ID() != walletID && s.openPayments != nil {
			hasOpen, err := s.openPayments.HasOpenPaymentsForWallet(ctx, current.ID())
			if err != nil {
				return err
			}
			if hasOpen {
				return apperrors.NewConflictError("active wallet has open payment requests depending on it")
			}
		}

		w.Activate()
		if err := s.wallets.Update(ctx, w); err != nil {
			return err
		}
		if err := s.wallets.DeactivateSiblings(ctx, merchantID, walletID); err != nil {
			return err
		}
		activated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

func (s *Service) Get(ctx context.Context, merchantID, walletID uint) (*wallet.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, merchantID, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if w == nil {
		return nil, apperrors.NewNotFoundError("wallet not found")
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, merchantID uint) ([]*wallet.Wallet, error) {
	wallets, err := s.wallets.List(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}
