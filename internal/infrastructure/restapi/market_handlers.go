package restapi

import (
	"net/http"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// CollectionsRequest is the body of the collections lookup.
type CollectionsRequest struct {
	ColIDs []string `json:"colIds"`
}

// CollectionsResponse maps collection id to its metadata.
type CollectionsResponse struct {
	OK          bool                             `json:"ok"`
	Collections map[string]entity.CollectionInfo `json:"collections"`
	Error       string                           `json:"error,omitempty"`
}

// MarketResponse is the market board plus an optional diagnostic.
type MarketResponse struct {
	entity.MarketView
	Error string `json:"error,omitempty"`
}

// MarketHandler serves the market board and NFT collection metadata.
type MarketHandler struct {
	market      port.MarketService
	collections port.CollectionsService
	logger      port.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(market port.MarketService, collections port.CollectionsService, logger port.Logger) *MarketHandler {
	return &MarketHandler{market: market, collections: collections, logger: logger}
}

// GetMarketHandler returns the market board sorted by ?sort= and filtered by ?q=.
func (h *MarketHandler) GetMarketHandler(c *gin.Context) {
	view, err := h.market.Market(c.Request.Context(), c.Query("sort"), c.Query("q"))
	if err != nil {
		h.logger.Error("Market view failed", "error", err)
		if view.Chia == nil {
			view.Chia = []entity.MarketToken{}
		}
		if view.Base == nil {
			view.Base = []entity.MarketToken{}
		}
		c.JSON(http.StatusOK, MarketResponse{MarketView: view, Error: err.Error()})
		return
	}
	cacheable(c, CacheShort)
	c.JSON(http.StatusOK, MarketResponse{MarketView: view})
}

// PostCollectionsHandler looks up MintGarden metadata for the posted ids.
func (h *MarketHandler) PostCollectionsHandler(c *gin.Context) {
	var req CollectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CollectionsResponse{Error: err.Error()})
		return
	}
	if len(req.ColIDs) == 0 {
		c.JSON(http.StatusOK, CollectionsResponse{OK: true, Collections: map[string]entity.CollectionInfo{}})
		return
	}
	c.JSON(http.StatusOK, CollectionsResponse{OK: true, Collections: h.collections.Collections(c.Request.Context(), req.ColIDs)})
}
