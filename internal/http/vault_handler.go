package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

type VaultHandler struct {
	ledgerSvc *ledger.Service
}

func NewVaultHandler(ledgerSvc *ledger.Service) *VaultHandler {
	return &VaultHandler{ledgerSvc: ledgerSvc}
}

func (h *VaultHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listVaults)
	pub.GET("/:mint", h.getVault)
	admin.POST("", h.initVault)
	admin.PUT("/:mint", h.updateVault)
	admin.POST("/:mint/collect", h.collectProtocolYield)
}

func (h *VaultHandler) Root() string {
	return "/vaults"
}

// VaultInfo describes one vault's configuration and balances
type VaultInfo struct {
	// Vault token mint address
	Mint string `json:"mint" example:"So11111111111111111111111111111111111111112"`

	// Token decimals used for UI rendering
	Decimals uint8 `json:"decimals" example:"9"`

	// Configured price feed account
	PriceFeed string `json:"priceFeed"`

	// Base swap fee in basis points
	BaseFeeBps uint64 `json:"baseFeeBps" example:"30"`

	// Protocol share of swap fees in basis points
	ProtocolFeeBps uint64 `json:"protocolFeeBps" example:"10"`

	// Exit fee ceiling in basis points
	MaxExitFeeBps uint64 `json:"maxExitFeeBps" example:"200"`

	// Maximum accepted oracle age in seconds
	MaxPriceAge uint64 `json:"maxPriceAge" example:"60"`

	// Staked principal, in base units
	InitialBalance string `json:"initialBalance" example:"1000000000000"`

	// Live liquidity, in base units
	CurrentBalance string `json:"currentBalance" example:"998000000000"`

	// Exit fee that a withdrawal right now would pay, in basis points
	CurrentExitFeeBps uint64 `json:"currentExitFeeBps" example:"0"`

	// Uncollected protocol fees, in base units
	ProtocolYield string `json:"protocolYield" example:"108990"`
}

// InitVaultRequest creates a new vault
type InitVaultRequest struct {
	// Vault token mint address
	Mint string `json:"mint" binding:"required"`

	// Token decimals
	Decimals uint8 `json:"decimals" binding:"required" example:"9"`

	// Price feed account for the token
	PriceFeed string `json:"priceFeed" binding:"required"`

	// Base swap fee in basis points, at most 1000
	BaseFeeBps uint64 `json:"baseFeeBps" example:"30"`

	// Protocol fee share in basis points, at most 500
	ProtocolFeeBps uint64 `json:"protocolFeeBps" example:"10"`

	// Exit fee ceiling in basis points, at most 1000
	MaxExitFeeBps uint64 `json:"maxExitFeeBps" example:"200"`

	// Maximum accepted oracle age in seconds, must be positive
	MaxPriceAge uint64 `json:"maxPriceAge" binding:"required" example:"60"`
}

// UpdateVaultRequest replaces a vault's operator parameters
type UpdateVaultRequest struct {
	PriceFeed      string `json:"priceFeed" binding:"required"`
	BaseFeeBps     uint64 `json:"baseFeeBps"`
	ProtocolFeeBps uint64 `json:"protocolFeeBps"`
	MaxExitFeeBps  uint64 `json:"maxExitFeeBps"`
	MaxPriceAge    uint64 `json:"maxPriceAge" binding:"required"`
}

func (h *VaultHandler) listVaults(c *gin.Context) {
	vaults, err := h.ledgerSvc.Vaults()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	infos := make([]VaultInfo, 0, len(vaults))
	for _, v := range vaults {
		infos = append(infos, vaultInfo(v))
	}
	httputil.Success(c, infos)
}

func (h *VaultHandler) getVault(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		httputil.BadRequest(c, "invalid mint address")
		return
	}

	vault, err := h.ledgerSvc.Vault(mint)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, vaultInfo(vault))
}

// @Summary Create vault
// @Description Register a new zero-balance vault with its fee policy and feed.
// @Tags vaults
// @Accept json
// @Produce json
// @Param request body InitVaultRequest true "Vault parameters"
// @Success 200 {object} VaultInfo
// @Failure 400 {object} httputil.Response "Parameters outside allowed ranges"
// @Failure 409 {object} httputil.Response "Vault already exists"
// @Router /api/v1/admin/vaults [post]
func (h *VaultHandler) initVault(c *gin.Context) {
	var req InitVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mint, err := solana.PublicKeyFromBase58(req.Mint)
	if err != nil {
		httputil.BadRequest(c, "invalid mint address")
		return
	}
	priceFeed, err := solana.PublicKeyFromBase58(req.PriceFeed)
	if err != nil {
		httputil.BadRequest(c, "invalid priceFeed address")
		return
	}

	vault, err := h.ledgerSvc.InitVault(mint, req.Decimals, ledger.VaultParams{
		BaseFeeBps:     req.BaseFeeBps,
		ProtocolFeeBps: req.ProtocolFeeBps,
		MaxExitFeeBps:  req.MaxExitFeeBps,
		MaxPriceAge:    req.MaxPriceAge,
		PriceFeed:      priceFeed,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, vaultInfo(vault))
}

func (h *VaultHandler) updateVault(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		httputil.BadRequest(c, "invalid mint address")
		return
	}

	var req UpdateVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	priceFeed, err := solana.PublicKeyFromBase58(req.PriceFeed)
	if err != nil {
		httputil.BadRequest(c, "invalid priceFeed address")
		return
	}

	vault, err := h.ledgerSvc.UpdateVault(mint, ledger.VaultParams{
		BaseFeeBps:     req.BaseFeeBps,
		ProtocolFeeBps: req.ProtocolFeeBps,
		MaxExitFeeBps:  req.MaxExitFeeBps,
		MaxPriceAge:    req.MaxPriceAge,
		PriceFeed:      priceFeed,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, vaultInfo(vault))
}

func (h *VaultHandler) collectProtocolYield(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		httputil.BadRequest(c, "invalid mint address")
		return
	}

	amount, err := h.ledgerSvc.CollectProtocolYield(mint)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, gin.H{"collected": decimal.NewFromUint64(amount).String()})
}

func vaultInfo(v *domain.Vault) VaultInfo {
	return VaultInfo{
		Mint:              v.TokenMint.String(),
		Decimals:          v.Decimals,
		PriceFeed:         v.PriceFeed.String(),
		BaseFeeBps:        v.BaseFeeBps,
		ProtocolFeeBps:    v.ProtocolFeeBps,
		MaxExitFeeBps:     v.MaxExitFeeBps,
		MaxPriceAge:       v.MaxPriceAge,
		InitialBalance:    decimal.NewFromUint64(v.InitialBalance).String(),
		CurrentBalance:    decimal.NewFromUint64(v.CurrentBalance).String(),
		CurrentExitFeeBps: pricing.ExitFeeBps(v),
		ProtocolYield:     decimal.NewFromUint64(v.ProtocolYield).String(),
	}
}
