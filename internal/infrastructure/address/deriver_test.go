package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testXPub is BIP32 test vector 1's master public key (a well-known,
// publicly documented value — no private material involved).
const testXPub = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"

func TestDeriver_Derive_Deterministic(t *testing.T) {
	d := NewDeriver()

	addr1, err := d.Derive(testXPub, 1, "")
	require.NoError(t, err)
	addr2, err := d.Derive(testXPub, 1, "")
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2, "deriving the same (xpub, index) twice must yield the same address")
	assert.True(t, ValidateTronAddress(addr1), "a derived address must pass its own validator")
}

func TestDeriver_Derive_DistinctIndicesDistinctAddresses(t *testing.T) {
	d := NewDeriver()

	seen := make(map[string]bool)
	for i := uint32(0); i < 5; i++ {
		addr, err := d.Derive(testXPub, i, "")
		require.NoError(t, err)
		require.True(t, ValidateTronAddress(addr))
		assert.False(t, seen[addr], "index %d produced an address already seen at a lower index", i)
		seen[addr] = true
	}
}

func TestDeriver_Derive_PrefixDoesNotChangeResult(t *testing.T) {
	d := NewDeriver()

	withoutPrefix, err := d.Derive(testXPub, 3, "")
	require.NoError(t, err)
	withPrefix, err := d.Derive(testXPub, 3, "m/44'/195'/0'")
	require.NoError(t, err)

	assert.Equal(t, withoutPrefix, withPrefix, "the stored derivation prefix is accepted but not applied")
}

func TestDeriver_Derive_MalformedXPub(t *testing.T) {
	d := NewDeriver()

	_, err := d.Derive("not-an-xpub", 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed xpub")
}

func TestDeriver_Derive_NeverReturnsAddressOnError(t *testing.T) {
	d := NewDeriver()

	addr, err := d.Derive("", 0, "")
	require.Error(t, err)
	assert.Empty(t, addr, "a failed derivation must never return a placeholder address")
}

func TestDeriver_ValidateXPub(t *testing.T) {
	d := NewDeriver()

	assert.True(t, d.ValidateXPub(testXPub))
	assert.False(t, d.ValidateXPub("garbage"))
	assert.False(t, d.ValidateXPub(""))
}

func TestValidateTronAddress(t *testing.T) {
	d := NewDeriver()
	valid, err := d.Derive(testXPub, 0, "")
	require.NoError(t, err)

	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"valid derived address", valid, true},
		{"wrong prefix", "X" + valid[1:], false},
		{"too short", valid[:33], false},
		{"too long", valid + "T", false},
		{"empty", "", false},
		{"corrupted checksum", valid[:len(valid)-1] + flipChar(valid[len(valid)-1]), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTronAddress(tt.addr))
		})
	}
}

func flipChar(c byte) byte {
	if c == '1' {
		return '2'
	}
	return '1'
}
