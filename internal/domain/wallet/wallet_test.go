package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet_Validation(t *testing.T) {
	_, err := NewWallet(0, "main", "xpub...", "")
	assert.Error(t, err)

	_, err = NewWallet(1, "", "xpub...", "")
	assert.Error(t, err)

	_, err = NewWallet(1, "main", "", "")
	assert.Error(t, err)

	w, err := NewWallet(1, "main", "xpub...", "m/44'/195'/0'")
	require.NoError(t, err)
	assert.Equal(t, NetworkTron, w.Network())
	assert.False(t, w.Active())
	assert.Equal(t, uint32(0), w.AddressIndex())
}

func TestWallet_NextIndex_MonotonicAndNoReuse(t *testing.T) {
	w, err := NewWallet(1, "main", "xpub...", "")
	require.NoError(t, err)

	seen := make(map[uint32]bool)
	for i := 0; i < 10; i++ {
		idx := w.NextIndex()
		assert.False(t, seen[idx], "index %d allocated twice", idx)
		seen[idx] = true
	}
	assert.Equal(t, uint32(10), w.AddressIndex())
}

func TestWallet_ActivateDeactivate(t *testing.T) {
	w, err := NewWallet(1, "main", "xpub...", "")
	require.NoError(t, err)

	w.Activate()
	assert.True(t, w.Active())

	w.Deactivate()
	assert.False(t, w.Active())
}
