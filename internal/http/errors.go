package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

// writeServiceError maps engine errors onto HTTP statuses. Anything not
// recognized is reported as an internal error.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrVaultNotFound),
		errors.Is(err, domain.ErrPositionNotFound):
		httputil.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrVaultExists):
		httputil.Conflict(c, err.Error())
	case errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrSameAsset),
		errors.Is(err, ledger.ErrInvalidFeeConfig),
		errors.Is(err, ledger.ErrStaleOracle):
		httputil.BadRequest(c, err.Error())
	case errors.Is(err, ledger.ErrHighSlippage),
		errors.Is(err, ledger.ErrInsufficientStake),
		errors.Is(err, pricing.ErrFeeExceeds),
		errors.Is(err, pricing.ErrInsufficientLiquidity),
		errors.Is(err, pricing.ErrInvalidPrice):
		httputil.Unprocessable(c, err.Error())
	default:
		httputil.InternalError(c, err.Error())
	}
}
