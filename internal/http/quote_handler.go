package http

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/metrics"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
)

type QuoteHandler struct {
	ledgerSvc *ledger.Service
}

func NewQuoteHandler(ledgerSvc *ledger.Service) *QuoteHandler {
	return &QuoteHandler{ledgerSvc: ledgerSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a swap quote
type QuoteRequest struct {
	// Input token mint address (Solana base58 public key)
	InputMint string `form:"inputMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Output token mint address (Solana base58 public key)
	OutputMint string `form:"outputMint" binding:"required" example:"uSd2czE61Evaf76RNbq4KPpXnkiL3irdzgLFUMe3NoG"`

	// Amount in smallest token units (base units)
	// For a 9-decimal token: "1000000000" = 1 whole token
	Amount uint64 `form:"amount" binding:"required" example:"1000000000"`

	// Base64-encoded borsh price update for the input token's feed
	PriceUpdateIn string `form:"priceUpdateIn" binding:"required"`

	// Base64-encoded borsh price update for the output token's feed
	PriceUpdateOut string `form:"priceUpdateOut" binding:"required"`
}

// QuoteResponse contains the computed quote for an oracle-priced swap
type QuoteResponse struct {
	// Input token mint address
	InputMint string `json:"inputMint" example:"So11111111111111111111111111111111111111112"`

	// Output token mint address
	OutputMint string `json:"outputMint" example:"uSd2czE61Evaf76RNbq4KPpXnkiL3irdzgLFUMe3NoG"`

	// Input amount in base units
	AmountIn string `json:"amountIn" example:"1000000000"`

	// Oracle-converted output before fees, in base units
	RawAmountOut string `json:"rawAmountOut" example:"145320000"`

	// Output after the swap fee, in base units
	NetAmountOut string `json:"netAmountOut" example:"144884040"`

	// Human-readable net output, scaled by the output vault's decimals
	NetAmountOutUi string `json:"netAmountOutUi" example:"144.88404"`

	// Effective fee rate in basis points (1 bps = 0.01%)
	// Composed of imbalance, utilization, and oracle-confidence components
	EffectiveFeeBps uint64 `json:"effectiveFeeBps" example:"30"`

	// Portion of the fee credited to liquidity providers, in base units
	LpFeeAmount string `json:"lpFeeAmount" example:"326970"`

	// Portion of the fee credited to the protocol treasury, in base units
	ProtocolFeeAmount string `json:"protocolFeeAmount" example:"108990"`
}

// @Summary Get swap quote
// @Description Compute the output amount and effective fee for an oracle-priced
// @Description swap between two vaults. Nothing is executed; balances are read
// @Description at their current values.
// @Description
// @Description The effective fee adapts to vault state:
// @Description - Imbalance between the two vaults raises the fee quadratically
// @Description - High utilization of the output vault raises it further
// @Description - Oracle confidence intervals add a surcharge (conf_fee strategy)
// @Description
// @Description **Amount Format:** smallest token units (base units).
// @Description Price updates are base64 borsh payloads from the configured feeds.
// @Tags quote
// @Produce json
// @Param inputMint query string true "Input token mint address"
// @Param outputMint query string true "Output token mint address"
// @Param amount query int true "Amount in base units"
// @Param priceUpdateIn query string true "Base64 borsh price update for the input feed"
// @Param priceUpdateOut query string true "Base64 borsh price update for the output feed"
// @Success 200 {object} QuoteResponse "Successful quote"
// @Failure 400 {object} httputil.Response "Invalid parameters or stale price"
// @Failure 404 {object} httputil.Response "Unknown vault"
// @Failure 422 {object} httputil.Response "Fee exceeds cap or insufficient liquidity"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	start := time.Now()

	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
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
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		httputil.BadRequest(c, "priceUpdateIn: "+err.Error())
		return
	}
	obsOut, err := parseObservation(h.ledgerSvc, req.PriceUpdateOut, outputMint)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		httputil.BadRequest(c, "priceUpdateOut: "+err.Error())
		return
	}

	quote, err := h.ledgerSvc.Quote(inputMint, outputMint, req.Amount, obsIn, obsOut)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		writeServiceError(c, err)
		return
	}

	vaultOut, err := h.ledgerSvc.Vault(outputMint)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	netUi := decimal.NewFromUint64(quote.NetAmountOut).Shift(-int32(vaultOut.Decimals))

	metrics.QuoteRequests.WithLabelValues("ok").Inc()
	metrics.QuoteDuration.Observe(time.Since(start).Seconds())
	metrics.EffectiveFeeBps.Observe(float64(quote.EffectiveFeeBps))

	httputil.Success(c, QuoteResponse{
		InputMint:         req.InputMint,
		OutputMint:        req.OutputMint,
		AmountIn:          decimal.NewFromUint64(req.Amount).String(),
		RawAmountOut:      decimal.NewFromUint64(quote.RawAmountOut).String(),
		NetAmountOut:      decimal.NewFromUint64(quote.NetAmountOut).String(),
		NetAmountOutUi:    netUi.String(),
		EffectiveFeeBps:   quote.EffectiveFeeBps,
		LpFeeAmount:       decimal.NewFromUint64(quote.LpFeeAmount).String(),
		ProtocolFeeAmount: decimal.NewFromUint64(quote.ProtocolFeeAmount).String(),
	})
}
