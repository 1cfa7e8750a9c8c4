package restapi

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	proxyTimeout        = 15 * time.Second
	addressTimeout      = 12 * time.Second
	tokenBalanceTimeout = 30 * time.Second
)

// proxyPrefixes are the Spacescan paths the browser may reach through us.
var proxyPrefixes = []string{
	"cat/info/",
	"address/balance/",
	"address/xch-balance/",
	"address/nft-balance/",
	"address/token-balance/",
}

var addressEndpoints = map[string]struct{}{
	"balance":       {},
	"nft-balance":   {},
	"token-balance": {},
	"xch-balance":   {},
}

// proxyIDRe is the single trailing segment allowed after a proxy prefix.
var proxyIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// AddressProxyRequest is the POST body of the address proxy.
type AddressProxyRequest struct {
	Endpoint string `json:"endpoint"`
	Address  string `json:"address"`
}

// ProxyHandler forwards allow-listed Spacescan requests for the browser.
type ProxyHandler struct {
	spacescan client.SpacescanClient
	logger    port.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(spacescan client.SpacescanClient, logger port.Logger) *ProxyHandler {
	return &ProxyHandler{spacescan: spacescan, logger: logger}
}

// AllowedProxyPath reports whether path may be forwarded: a known prefix
// followed by exactly one plain identifier. Percent signs are refused outright.
func AllowedProxyPath(path string) bool {
	path = strings.TrimLeft(path, "/")
	if path == "" || strings.Contains(path, "%") {
		return false
	}
	for _, p := range proxyPrefixes {
		if rest, ok := strings.CutPrefix(path, p); ok {
			return proxyIDRe.MatchString(rest)
		}
	}
	return false
}

// GetSpacescanProxyHandler forwards ?path= to Spacescan.
func (h *ProxyHandler) GetSpacescanProxyHandler(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing path parameter"})
		return
	}
	if !AllowedProxyPath(path) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Path not allowed"})
		return
	}
	h.forward(c, strings.TrimLeft(path, "/"), proxyTimeout, CacheProxy)
}

// AddressProxyHandler forwards endpoint+address, from the query string on
// GET and from the JSON body on POST.
func (h *ProxyHandler) AddressProxyHandler(c *gin.Context) {
	var req AddressProxyRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
			return
		}
	} else {
		req.Endpoint, req.Address = c.Query("endpoint"), c.Query("address")
	}
	req.Endpoint, req.Address = strings.TrimSpace(req.Endpoint), strings.TrimSpace(req.Address)

	if req.Endpoint == "" || req.Address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing endpoint or address"})
		return
	}
	if _, ok := addressEndpoints[req.Endpoint]; !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid endpoint"})
		return
	}
	if !utils.IsChiaAddress(req.Address) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid address"})
		return
	}

	timeout := addressTimeout
	if req.Endpoint == "token-balance" {
		timeout = tokenBalanceTimeout
	}
	h.forward(c, "address/"+req.Endpoint+"/"+req.Address, timeout, "")
}

func (h *ProxyHandler) forward(c *gin.Context, path string, timeout time.Duration, cache string) {
	resp, err := h.spacescan.Proxy(c.Request.Context(), path, timeout)
	if err != nil {
		h.logger.Warn("Spacescan proxy failed", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if !resp.OK() {
		c.JSON(resp.StatusCode, ErrorResponse{Error: fmt.Sprintf("Spacescan returned %d", resp.StatusCode)})
		return
	}
	if cache != "" {
		cacheable(c, cache)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}
