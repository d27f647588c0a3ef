package http

import (
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

type StakingHandler struct {
	ledgerSvc *ledger.Service
}

func NewStakingHandler(ledgerSvc *ledger.Service) *StakingHandler {
	return &StakingHandler{ledgerSvc: ledgerSvc}
}

func (h *StakingHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/stake", h.stake)
	pub.POST("/unstake", h.unstake)
	pub.POST("/claim", h.claim)
	pub.GET("/position", h.getPosition)
}

func (h *StakingHandler) Root() string {
	return "/staking"
}

// StakeRequest deposits principal into a vault
type StakeRequest struct {
	// Vault token mint address
	Mint string `json:"mint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Staker wallet address
	Owner string `json:"owner" binding:"required"`

	// Amount to stake, in base units
	Amount uint64 `json:"amount" binding:"required" example:"1000000000"`
}

// UnstakeRequest withdraws principal from a vault
type UnstakeRequest struct {
	// Vault token mint address
	Mint string `json:"mint" binding:"required"`

	// Staker wallet address
	Owner string `json:"owner" binding:"required"`

	// Amount of principal to withdraw, in base units
	Amount uint64 `json:"amount" binding:"required"`
}

// ClaimRequest pays out a staker's accumulated yield
type ClaimRequest struct {
	// Vault token mint address
	Mint string `json:"mint" binding:"required"`

	// Staker wallet address
	Owner string `json:"owner" binding:"required"`
}

// UnstakeResponse reports the exit-fee adjusted payout
type UnstakeResponse struct {
	// Principal debited from the position, in base units
	Requested string `json:"requested" example:"1000000000"`

	// Amount paid out after the exit fee, in base units
	PaidOut string `json:"paidOut" example:"980000000"`

	// Exit fee rate applied, in basis points
	ExitFeeBps uint64 `json:"exitFeeBps" example:"200"`

	// Exit fee retained by the vault, in base units
	ExitFee string `json:"exitFee" example:"20000000"`
}

// PositionResponse describes a staker's position and claimable yield
type PositionResponse struct {
	// Vault token mint address
	Mint string `json:"mint"`

	// Staker wallet address
	Owner string `json:"owner"`

	// Staked principal, in base units
	StakedAmount string `json:"stakedAmount" example:"1000000000"`

	// Yield claimable right now: checkpointed plus accrued since the last
	// checkpoint, in base units
	ClaimableYield string `json:"claimableYield" example:"326970"`
}

func (h *StakingHandler) stake(c *gin.Context) {
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mint, owner, ok := parseMintOwner(c, req.Mint, req.Owner)
	if !ok {
		return
	}

	if err := h.ledgerSvc.Stake(mint, owner, req.Amount); err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, gin.H{"staked": decimal.NewFromUint64(req.Amount).String()})
}

func (h *StakingHandler) unstake(c *gin.Context) {
	var req UnstakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mint, owner, ok := parseMintOwner(c, req.Mint, req.Owner)
	if !ok {
		return
	}

	receipt, err := h.ledgerSvc.Unstake(mint, owner, req.Amount)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	httputil.Success(c, UnstakeResponse{
		Requested:  decimal.NewFromUint64(receipt.Requested).String(),
		PaidOut:    decimal.NewFromUint64(receipt.PaidOut).String(),
		ExitFeeBps: receipt.ExitFeeBps,
		ExitFee:    decimal.NewFromUint64(receipt.ExitFee).String(),
	})
}

func (h *StakingHandler) claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mint, owner, ok := parseMintOwner(c, req.Mint, req.Owner)
	if !ok {
		return
	}

	paid, err := h.ledgerSvc.Claim(mint, owner)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, gin.H{"claimed": decimal.NewFromUint64(paid).String()})
}

func (h *StakingHandler) getPosition(c *gin.Context) {
	mint, owner, ok := parseMintOwner(c, c.Query("mint"), c.Query("owner"))
	if !ok {
		return
	}

	position, err := h.ledgerSvc.Position(mint, owner)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	vault, err := h.ledgerSvc.Vault(mint)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	accrued := pricing.StakerYield(vault.CumulativeYieldPerShare, position.StakedAmount, position.LastCumulativeYield)
	claimable := position.PendingClaim + accrued
	if claimable < position.PendingClaim {
		claimable = math.MaxUint64
	}

	httputil.Success(c, PositionResponse{
		Mint:           mint.String(),
		Owner:          owner.String(),
		StakedAmount:   decimal.NewFromUint64(position.StakedAmount).String(),
		ClaimableYield: decimal.NewFromUint64(claimable).String(),
	})
}

func parseMintOwner(c *gin.Context, mintStr, ownerStr string) (solana.PublicKey, solana.PublicKey, bool) {
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		httputil.BadRequest(c, "invalid mint address")
		return solana.PublicKey{}, solana.PublicKey{}, false
	}
	owner, err := solana.PublicKeyFromBase58(ownerStr)
	if err != nil {
		httputil.BadRequest(c, "invalid owner address")
		return solana.PublicKey{}, solana.PublicKey{}, false
	}
	return mint, owner, true
}
