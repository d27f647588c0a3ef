package persistence

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	badger "github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/vault-engine/internal/domain"
)

const (
	vaultPrefix    = "vault:"
	positionPrefix = "position:"

	DefaultDBPath = "./data/vault-engine.db"
)

// StoredVault is the JSON form of a vault record. The 128-bit accumulator is
// kept as a decimal string.
type StoredVault struct {
	BaseFeeBps              uint64 `json:"baseFeeBps"`
	ProtocolFeeBps          uint64 `json:"protocolFeeBps"`
	MaxExitFeeBps           uint64 `json:"maxExitFeeBps"`
	TokenMint               string `json:"tokenMint"`
	Decimals                uint8  `json:"decimals"`
	PriceFeed               string `json:"priceFeed"`
	MaxPriceAge             uint64 `json:"maxPriceAge"`
	InitialBalance          uint64 `json:"initialBalance"`
	CurrentBalance          uint64 `json:"currentBalance"`
	CumulativeYieldPerShare string `json:"cumulativeYieldPerShare"`
	ProtocolYield           uint64 `json:"protocolYield"`
}

// StoredPosition is the JSON form of a position record.
type StoredPosition struct {
	Owner               string `json:"owner"`
	Vault               string `json:"vault"`
	StakedAmount        uint64 `json:"stakedAmount"`
	LastCumulativeYield string `json:"lastCumulativeYield"`
	PendingClaim        uint64 `json:"pendingClaim"`
}

type Storage struct {
	db     *badger.DB
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database dir at %s: %w", dbPath, err)
	}

	opts := badger.DefaultOptions(dbPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	log.Info().Str("path", dbPath).Msg("[storage] opened database")

	return &Storage{db: db, dbPath: dbPath}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func vaultKey(mint solana.PublicKey) []byte {
	return []byte(vaultPrefix + mint.String())
}

func positionKey(vault, owner solana.PublicKey) []byte {
	return []byte(positionPrefix + vault.String() + ":" + owner.String())
}

// Vault loads one vault record.
func (s *Storage) Vault(mint solana.PublicKey) (*domain.Vault, error) {
	var stored StoredVault
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(vaultKey(mint))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrVaultNotFound
	}
	if err != nil {
		return nil, err
	}
	return vaultFromStored(&stored)
}

// Vaults loads every vault record.
func (s *Storage) Vaults() ([]*domain.Vault, error) {
	var out []*domain.Vault
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vaultPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var stored StoredVault
			if err := it.Item().Value(func(val []byte) error {
				return sonic.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
			vault, err := vaultFromStored(&stored)
			if err != nil {
				return err
			}
			out = append(out, vault)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Position loads one position record.
func (s *Storage) Position(vault, owner solana.PublicKey) (*domain.Position, error) {
	var stored StoredPosition
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(vault, owner))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return sonic.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, err
	}
	return positionFromStored(&stored)
}

// Save writes all given records in one transaction: either every record
// commits or none does.
func (s *Storage) Save(vaults []*domain.Vault, positions []*domain.Position) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, v := range vaults {
			data, err := sonic.Marshal(vaultToStored(v))
			if err != nil {
				return err
			}
			if err := txn.Set(vaultKey(v.TokenMint), data); err != nil {
				return err
			}
		}
		for _, p := range positions {
			data, err := sonic.Marshal(positionToStored(p))
			if err != nil {
				return err
			}
			if err := txn.Set(positionKey(p.Vault, p.Owner), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func vaultToStored(v *domain.Vault) *StoredVault {
	return &StoredVault{
		BaseFeeBps:              v.BaseFeeBps,
		ProtocolFeeBps:          v.ProtocolFeeBps,
		MaxExitFeeBps:           v.MaxExitFeeBps,
		TokenMint:               v.TokenMint.String(),
		Decimals:                v.Decimals,
		PriceFeed:               v.PriceFeed.String(),
		MaxPriceAge:             v.MaxPriceAge,
		InitialBalance:          v.InitialBalance,
		CurrentBalance:          v.CurrentBalance,
		CumulativeYieldPerShare: v.CumulativeYieldPerShare.Dec(),
		ProtocolYield:           v.ProtocolYield,
	}
}

func vaultFromStored(stored *StoredVault) (*domain.Vault, error) {
	mint, err := solana.PublicKeyFromBase58(stored.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("corrupt vault record: %w", err)
	}
	feed, err := solana.PublicKeyFromBase58(stored.PriceFeed)
	if err != nil {
		return nil, fmt.Errorf("corrupt vault record: %w", err)
	}
	acc, err := uint256.FromDecimal(stored.CumulativeYieldPerShare)
	if err != nil {
		return nil, fmt.Errorf("corrupt vault record: %w", err)
	}
	return &domain.Vault{
		BaseFeeBps:              stored.BaseFeeBps,
		ProtocolFeeBps:          stored.ProtocolFeeBps,
		MaxExitFeeBps:           stored.MaxExitFeeBps,
		TokenMint:               mint,
		Decimals:                stored.Decimals,
		PriceFeed:               feed,
		MaxPriceAge:             stored.MaxPriceAge,
		InitialBalance:          stored.InitialBalance,
		CurrentBalance:          stored.CurrentBalance,
		CumulativeYieldPerShare: acc,
		ProtocolYield:           stored.ProtocolYield,
	}, nil
}

func positionToStored(p *domain.Position) *StoredPosition {
	return &StoredPosition{
		Owner:               p.Owner.String(),
		Vault:               p.Vault.String(),
		StakedAmount:        p.StakedAmount,
		LastCumulativeYield: p.LastCumulativeYield.Dec(),
		PendingClaim:        p.PendingClaim,
	}
}

func positionFromStored(stored *StoredPosition) (*domain.Position, error) {
	owner, err := solana.PublicKeyFromBase58(stored.Owner)
	if err != nil {
		return nil, fmt.Errorf("corrupt position record: %w", err)
	}
	vault, err := solana.PublicKeyFromBase58(stored.Vault)
	if err != nil {
		return nil, fmt.Errorf("corrupt position record: %w", err)
	}
	acc, err := uint256.FromDecimal(stored.LastCumulativeYield)
	if err != nil {
		return nil, fmt.Errorf("corrupt position record: %w", err)
	}
	return &domain.Position{
		Owner:               owner,
		Vault:               vault,
		StakedAmount:        stored.StakedAmount,
		LastCumulativeYield: acc,
		PendingClaim:        stored.PendingClaim,
	}, nil
}
