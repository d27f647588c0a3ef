package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
)

type SwapHandler struct {
	ledgerSvc *ledger.Service
}

func NewSwapHandler(ledgerSvc *ledger.Service) *SwapHandler {
	return &SwapHandler{ledgerSvc: ledgerSvc}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.executeSwap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// SwapRequest represents an executable swap order
type SwapRequest struct {
	// Input token mint address (Solana base58 public key)
	InputMint string `json:"inputMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Output token mint address (Solana base58 public key)
	OutputMint string `json:"outputMint" binding:"required" example:"uSd2czE61Evaf76RNbq4KPpXnkiL3irdzgLFUMe3NoG"`

	// Amount in base units
	Amount uint64 `json:"amount" binding:"required" example:"1000000000"`

	// Minimum acceptable net output in base units; the swap is rejected if
	// the computed output falls below this threshold
	MinimumOut uint64 `json:"minimumOut" example:"144000000"`

	// Base64-encoded borsh price update for the input token's feed
	PriceUpdateIn string `json:"priceUpdateIn" binding:"required"`

	// Base64-encoded borsh price update for the output token's feed
	PriceUpdateOut string `json:"priceUpdateOut" binding:"required"`
}

// SwapResponse reports the executed swap amounts
type SwapResponse struct {
	// Input token mint address
	InputMint string `json:"inputMint"`

	// Output token mint address
	OutputMint string `json:"outputMint"`

	// Input amount in base units
	AmountIn string `json:"amountIn" example:"1000000000"`

	// Net output paid out, in base units
	AmountOut string `json:"amountOut" example:"144884040"`

	// Human-readable net output
	AmountOutUi string `json:"amountOutUi" example:"144.88404"`

	// Effective fee rate applied, in basis points
	EffectiveFeeBps uint64 `json:"effectiveFeeBps" example:"30"`

	// Fee credited to liquidity providers, in base units
	LpFeeAmount string `json:"lpFeeAmount" example:"326970"`

	// Fee credited to the protocol treasury, in base units
	ProtocolFeeAmount string `json:"protocolFeeAmount" example:"108990"`
}

// @Summary Execute swap
// @Description Execute an oracle-priced swap between two vaults. The quote is
// @Description recomputed against current balances, checked against minimumOut,
// @Description and both vaults are updated atomically. The LP share of the fee
// @Description accrues to the output vault's stakers.
// @Tags swap
// @Accept json
// @Produce json
// @Param request body SwapRequest true "Swap order"
// @Success 200 {object} SwapResponse "Executed swap"
// @Failure 400 {object} httputil.Response "Invalid parameters or stale price"
// @Failure 404 {object} httputil.Response "Unknown vault"
// @Failure 422 {object} httputil.Response "Slippage, fee cap, or liquidity rejection"
// @Router /api/v1/swap [post]
func (h *SwapHandler) executeSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	inputMint, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		httputil.BadRequest(c, "invalid inputMint address")
		return
	}
	outputMint, err := solana.PublicKeyFromBase58(req.OutputMint)
	if err != nil {
		httputil.BadRequest(c, "invalid outputMint address")
		return
	}

	obsIn, err := parseObservation(h.ledgerSvc, req.PriceUpdateIn, inputMint)
	if err != nil {
		httputil.BadRequest(c, "priceUpdateIn: "+err.Error())
		return
	}
	obsOut, err := parseObservation(h.ledgerSvc, req.PriceUpdateOut, outputMint)
	if err != nil {
		httputil.BadRequest(c, "priceUpdateOut: "+err.Error())
		return
	}

	quote, err := h.ledgerSvc.Swap(inputMint, outputMint, req.Amount, req.MinimumOut, obsIn, obsOut)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	vaultOut, err := h.ledgerSvc.Vault(outputMint)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	outUi := decimal.NewFromUint64(quote.NetAmountOut).Shift(-int32(vaultOut.Decimals))

	httputil.Success(c, SwapResponse{
		InputMint:         req.InputMint,
		OutputMint:        req.OutputMint,
		AmountIn:          decimal.NewFromUint64(req.Amount).String(),
		AmountOut:         decimal.NewFromUint64(quote.NetAmountOut).String(),
		AmountOutUi:       outUi.String(),
		EffectiveFeeBps:   quote.EffectiveFeeBps,
		LpFeeAmount:       decimal.NewFromUint64(quote.LpFeeAmount).String(),
		ProtocolFeeAmount: decimal.NewFromUint64(quote.ProtocolFeeAmount).String(),
	})
}
