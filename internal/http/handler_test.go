package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/vault-engine/internal/adapters/oracle"
	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/http/httputil"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

type fakeStore struct {
	vaults    map[string]*domain.Vault
	positions map[string]*domain.Position
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vaults:    make(map[string]*domain.Vault),
		positions: make(map[string]*domain.Position),
	}
}

func (f *fakeStore) Vault(mint solana.PublicKey) (*domain.Vault, error) {
	v, ok := f.vaults[mint.String()]
	if !ok {
		return nil, domain.ErrVaultNotFound
	}
	return v.Clone(), nil
}

func (f *fakeStore) Vaults() ([]*domain.Vault, error) {
	out := make([]*domain.Vault, 0, len(f.vaults))
	for _, v := range f.vaults {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (f *fakeStore) Position(vault, owner solana.PublicKey) (*domain.Position, error) {
	p, ok := f.positions[vault.String()+"|"+owner.String()]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	return p.Clone(), nil
}

func (f *fakeStore) Save(vaults []*domain.Vault, positions []*domain.Position) error {
	for _, v := range vaults {
		f.vaults[v.TokenMint.String()] = v.Clone()
	}
	for _, p := range positions {
		f.positions[p.Vault.String()+"|"+p.Owner.String()] = p.Clone()
	}
	return nil
}

const testPublishTime = int64(1_700_000_000)

func testKey(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

var (
	solMint  = testKey(1)
	usdcMint = testKey(2)
	solFeed  = testKey(3)
	usdcFeed = testKey(4)
	wallet   = testKey(10)
)

func quoteURL(payloadIn, payloadOut string) string {
	q := url.Values{}
	q.Set("inputMint", solMint.String())
	q.Set("outputMint", usdcMint.String())
	q.Set("amount", "1000000000")
	q.Set("priceUpdateIn", payloadIn)
	q.Set("priceUpdateOut", payloadOut)
	return "/api/v1/quote?" + q.Encode()
}

func pricePayload(t *testing.T, feed solana.PublicKey, price int64, conf uint64) string {
	t.Helper()
	msg := oracle.PriceFeedMessage{
		FeedID:      [32]byte(feed),
		Price:       price,
		Conf:        conf,
		Exponent:    -8,
		PublishTime: testPublishTime,
	}
	var buf bytes.Buffer
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(msg))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestRouter(t *testing.T) (*gin.Engine, *ledger.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := ledger.NewService(newFakeStore(), pricing.StrategyConfFee).
		WithClock(func() time.Time { return time.Unix(testPublishTime+30, 0) })

	_, err := svc.InitVault(solMint, 9, ledger.VaultParams{
		BaseFeeBps: 30, ProtocolFeeBps: 5, MaxExitFeeBps: 1_000, MaxPriceAge: 60, PriceFeed: solFeed,
	})
	require.NoError(t, err)
	_, err = svc.InitVault(usdcMint, 6, ledger.VaultParams{
		BaseFeeBps: 30, ProtocolFeeBps: 5, MaxExitFeeBps: 1_000, MaxPriceAge: 60, PriceFeed: usdcFeed,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Stake(solMint, wallet, 110_000_000_000))
	require.NoError(t, svc.Stake(usdcMint, wallet, 18_000_000_000))

	r := gin.New()
	api := r.Group("api/v1")
	admin := r.Group("api/v1/admin")
	for _, h := range []httputil.IHttpHandler{
		NewQuoteHandler(svc),
		NewSwapHandler(svc),
		NewStakingHandler(svc),
		NewVaultHandler(svc),
	} {
		h.SetRoutes(api.Group(h.Root()), api.Group(h.Root()), admin.Group(h.Root()))
	}
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetQuote(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, quoteURL(
		pricePayload(t, solFeed, 18_000_000_000, 10_000_000),
		pricePayload(t, usdcFeed, 100_000_000, 10_000)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	require.Equal(t, "179262000", data["netAmountOut"])
	require.Equal(t, "180000000", data["rawAmountOut"])
	require.EqualValues(t, 36, data["effectiveFeeBps"])
	require.Equal(t, "179.262", data["netAmountOutUi"])
}

func TestGetQuoteRejectsFeedMismatch(t *testing.T) {
	r, _ := newTestRouter(t)

	// Payload signed for the USDC feed presented as the SOL leg.
	w, resp := doJSON(t, r, http.MethodGet, quoteURL(
		pricePayload(t, usdcFeed, 18_000_000_000, 10_000_000),
		pricePayload(t, usdcFeed, 100_000_000, 10_000)), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "does not match vault feed")
}

func TestExecuteSwap(t *testing.T) {
	r, svc := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/swap", SwapRequest{
		InputMint:      solMint.String(),
		OutputMint:     usdcMint.String(),
		Amount:         1_000_000_000,
		MinimumOut:     179_000_000,
		PriceUpdateIn:  pricePayload(t, solFeed, 18_000_000_000, 10_000_000),
		PriceUpdateOut: pricePayload(t, usdcFeed, 100_000_000, 10_000),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	require.Equal(t, "179262000", data["amountOut"])

	vault, err := svc.Vault(usdcMint)
	require.NoError(t, err)
	require.EqualValues(t, 17_820_738_000, vault.CurrentBalance)
}

func TestExecuteSwapSlippage(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/swap", SwapRequest{
		InputMint:      solMint.String(),
		OutputMint:     usdcMint.String(),
		Amount:         1_000_000_000,
		MinimumOut:     179_262_001,
		PriceUpdateIn:  pricePayload(t, solFeed, 18_000_000_000, 10_000_000),
		PriceUpdateOut: pricePayload(t, usdcFeed, 100_000_000, 10_000),
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.False(t, resp.Success)
}

func TestStakingEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	staker := testKey(20)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/staking/stake", StakeRequest{
		Mint: solMint.String(), Owner: staker.String(), Amount: 5_000_000_000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/v1/staking/position?mint=%s&owner=%s", solMint, staker), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	require.Equal(t, "5000000000", data["stakedAmount"])
	require.Equal(t, "0", data["claimableYield"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/staking/unstake", UnstakeRequest{
		Mint: solMint.String(), Owner: staker.String(), Amount: 5_000_000_000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]any)
	require.Equal(t, "5000000000", data["paidOut"]) // healthy vault, no exit fee

	// Unstaking again overdraws.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/staking/unstake", UnstakeRequest{
		Mint: solMint.String(), Owner: staker.String(), Amount: 1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVaultAdminEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	newMint := testKey(30)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/vaults", InitVaultRequest{
		Mint:       newMint.String(),
		Decimals:   6,
		PriceFeed:  testKey(31).String(),
		BaseFeeBps: 30, ProtocolFeeBps: 5, MaxExitFeeBps: 200, MaxPriceAge: 60,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	// Duplicate creation conflicts.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/vaults", InitVaultRequest{
		Mint:       newMint.String(),
		Decimals:   6,
		PriceFeed:  testKey(31).String(),
		BaseFeeBps: 30, MaxPriceAge: 60,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Fee outside the cap is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/vaults", InitVaultRequest{
		Mint:       testKey(32).String(),
		Decimals:   6,
		PriceFeed:  testKey(31).String(),
		BaseFeeBps: 1_001, MaxPriceAge: 60,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/vaults", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Data, 3)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/vaults/"+newMint.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	require.Equal(t, newMint.String(), data["mint"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/vaults/"+testKey(99).String(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
