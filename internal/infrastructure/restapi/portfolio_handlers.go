package restapi

import (
	"net/http"
	"strings"
	"time"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WalletsResponse is the treasury mode of the price endpoint.
type WalletsResponse struct {
	OK        bool                    `json:"ok"`
	Wallets   []entity.WalletSnapshot `json:"wallets"`
	ElapsedMs int64                   `json:"elapsed_ms"`
}

// HoldingsErrorResponse keeps the holdings shape when the lookup failed.
type HoldingsErrorResponse struct {
	Tokens []entity.HoldingRow `json:"tokens"`
	Total  float64             `json:"total"`
	Error  string              `json:"error"`
}

// OverviewResponse is the whole-treasury summary.
type OverviewResponse struct {
	entity.TreasuryOverview
	Error string `json:"error,omitempty"`
}

// PortfolioHandler serves prices, wallet sweeps and holdings.
type PortfolioHandler struct {
	prices   port.PriceService
	treasury port.TreasuryService
	holdings port.HoldingsService
	overview port.OverviewService
	wallets  port.WalletProvider
	logger   port.Logger
}

// NewPortfolioHandler creates a new instance of PortfolioHandler.
func NewPortfolioHandler(
	prices port.PriceService,
	treasury port.TreasuryService,
	holdings port.HoldingsService,
	overview port.OverviewService,
	wallets port.WalletProvider,
	logger port.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		prices:   prices,
		treasury: treasury,
		holdings: holdings,
		overview: overview,
		wallets:  wallets,
		logger:   logger,
	}
}

// GetChiaPricesHandler returns the CAT price board, or wallet snapshots when
// mode=treasury. Without a wallets parameter the configured Chia wallets are swept.
func (h *PortfolioHandler) GetChiaPricesHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("mode") != "treasury" {
		board := h.prices.ChiaPriceBoard(ctx)
		cacheable(c, CacheShort)
		c.JSON(http.StatusOK, board)
		return
	}

	wallets := utils.SplitCSV(c.Query("wallets"))
	if len(wallets) == 0 {
		configured, err := h.wallets.GetWalletsByChain(entity.ChainChia)
		if err != nil {
			h.logger.Error("Failed to load Chia wallets", "error", err)
			c.JSON(http.StatusOK, WalletsResponse{Wallets: []entity.WalletSnapshot{}})
			return
		}
		wallets = configured
	} else {
		for _, w := range wallets {
			if !utils.IsChiaAddress(w) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid wallet address"})
				return
			}
		}
	}

	start := time.Now()
	snaps := h.treasury.WalletSnapshots(ctx, wallets)
	c.JSON(http.StatusOK, WalletsResponse{
		OK:        true,
		Wallets:   snaps,
		ElapsedMs: time.Since(start).Milliseconds(),
	})
}

// GetHoldingsHandler returns one wallet's holdings. Internal failures keep
// status 200 so the dashboard can render an empty state.
func (h *PortfolioHandler) GetHoldingsHandler(c *gin.Context) {
	rawChain := strings.TrimSpace(c.Query("chain"))
	address := strings.TrimSpace(c.Query("address"))
	if rawChain == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing chain"})
		return
	}
	chain, ok := entity.ParseChain(rawChain)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid chain"})
		return
	}
	if chain == entity.ChainBase && address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing address"})
		return
	}
	if !validHoldingsAddress(chain, address) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid address"})
		return
	}

	report, err := h.holdings.Holdings(c.Request.Context(), chain, address)
	if err != nil {
		h.logger.Warn("Holdings lookup failed", "chain", chain, "address", address, "error", err)
		c.JSON(http.StatusOK, HoldingsErrorResponse{Tokens: []entity.HoldingRow{}, Error: err.Error()})
		return
	}
	cacheable(c, CacheShort)
	c.JSON(http.StatusOK, report)
}

func validHoldingsAddress(chain entity.Chain, address string) bool {
	if chain == entity.ChainBase {
		return utils.IsEVMAddress(address)
	}
	return address == "" || utils.IsChiaAddress(address)
}

// GetTreasuryHandler returns the whole-treasury summary.
func (h *PortfolioHandler) GetTreasuryHandler(c *gin.Context) {
	ov, err := h.overview.Overview(c.Request.Context())
	if err != nil {
		h.logger.Error("Treasury overview failed", "error", err)
		c.JSON(http.StatusOK, OverviewResponse{TreasuryOverview: ov, Error: err.Error()})
		return
	}
	cacheable(c, CacheShort)
	c.JSON(http.StatusOK, OverviewResponse{TreasuryOverview: ov})
}
