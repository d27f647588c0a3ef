package persistence

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/vault-engine/internal/domain"
)

func testPubkey(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestVaultRoundTrip(t *testing.T) {
	store := openTestStorage(t)

	mint := testPubkey(1)
	vault := domain.NewVault(mint, 9, testPubkey(2), 30, 5, 1_000, 60)
	vault.InitialBalance = 110_000_000_000
	vault.CurrentBalance = 106_164_000_000
	vault.ProtocolYield = 10_000_000
	vault.CumulativeYieldPerShare = uint256.NewInt(1_400_000_000)

	require.NoError(t, store.Save([]*domain.Vault{vault}, nil))

	loaded, err := store.Vault(mint)
	require.NoError(t, err)
	require.Equal(t, vault.TokenMint, loaded.TokenMint)
	require.Equal(t, vault.PriceFeed, loaded.PriceFeed)
	require.Equal(t, vault.Decimals, loaded.Decimals)
	require.Equal(t, vault.BaseFeeBps, loaded.BaseFeeBps)
	require.Equal(t, vault.ProtocolFeeBps, loaded.ProtocolFeeBps)
	require.Equal(t, vault.MaxExitFeeBps, loaded.MaxExitFeeBps)
	require.Equal(t, vault.MaxPriceAge, loaded.MaxPriceAge)
	require.Equal(t, vault.InitialBalance, loaded.InitialBalance)
	require.Equal(t, vault.CurrentBalance, loaded.CurrentBalance)
	require.Equal(t, vault.ProtocolYield, loaded.ProtocolYield)
	require.True(t, vault.CumulativeYieldPerShare.Eq(loaded.CumulativeYieldPerShare))
}

func TestVaultAccumulatorPastUint64(t *testing.T) {
	// The accumulator is 128-bit; the decimal-string encoding must survive
	// values a u64 cannot hold.
	store := openTestStorage(t)

	mint := testPubkey(3)
	vault := domain.NewVault(mint, 6, testPubkey(4), 30, 5, 1_000, 60)
	vault.CumulativeYieldPerShare = new(uint256.Int).Lsh(uint256.NewInt(1), 100)

	require.NoError(t, store.Save([]*domain.Vault{vault}, nil))

	loaded, err := store.Vault(mint)
	require.NoError(t, err)
	require.True(t, vault.CumulativeYieldPerShare.Eq(loaded.CumulativeYieldPerShare))
}

func TestPositionRoundTrip(t *testing.T) {
	store := openTestStorage(t)

	mint, owner := testPubkey(1), testPubkey(5)
	position := domain.NewPosition(owner, mint)
	position.StakedAmount = 100_000_000_000
	position.PendingClaim = 140_000_000
	position.LastCumulativeYield = uint256.NewInt(916_000_000)

	require.NoError(t, store.Save(nil, []*domain.Position{position}))

	loaded, err := store.Position(mint, owner)
	require.NoError(t, err)
	require.Equal(t, position.Owner, loaded.Owner)
	require.Equal(t, position.Vault, loaded.Vault)
	require.Equal(t, position.StakedAmount, loaded.StakedAmount)
	require.Equal(t, position.PendingClaim, loaded.PendingClaim)
	require.True(t, position.LastCumulativeYield.Eq(loaded.LastCumulativeYield))
}

func TestMissingRecords(t *testing.T) {
	store := openTestStorage(t)

	_, err := store.Vault(testPubkey(9))
	require.ErrorIs(t, err, domain.ErrVaultNotFound)

	_, err = store.Position(testPubkey(9), testPubkey(10))
	require.ErrorIs(t, err, domain.ErrPositionNotFound)
}

func TestVaultsListsAllRecords(t *testing.T) {
	store := openTestStorage(t)

	for b := byte(1); b <= 3; b++ {
		vault := domain.NewVault(testPubkey(b), 6, testPubkey(100+b), 30, 5, 1_000, 60)
		require.NoError(t, store.Save([]*domain.Vault{vault}, nil))
	}
	// A position record must not leak into the vault listing.
	require.NoError(t, store.Save(nil, []*domain.Position{domain.NewPosition(testPubkey(5), testPubkey(1))}))

	vaults, err := store.Vaults()
	require.NoError(t, err)
	require.Len(t, vaults, 3)
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStorage(t)

	mint := testPubkey(1)
	vault := domain.NewVault(mint, 6, testPubkey(2), 30, 5, 1_000, 60)
	require.NoError(t, store.Save([]*domain.Vault{vault}, nil))

	vault.CurrentBalance = 42
	require.NoError(t, store.Save([]*domain.Vault{vault}, nil))

	loaded, err := store.Vault(mint)
	require.NoError(t, err)
	require.EqualValues(t, 42, loaded.CurrentBalance)
}
