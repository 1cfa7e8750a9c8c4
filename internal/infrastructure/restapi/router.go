package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions toggles the optional surfaces.
type RouterOptions struct {
	SwaggerEnabled bool
	// SwaggerSpecFile is served at /docs/swagger.yaml for the UI.
	SwaggerSpecFile string
}

// SetupRouter builds the gin engine with every API route.
func SetupRouter(
	portfolioHandler *PortfolioHandler,
	marketHandler *MarketHandler,
	proxyHandler *ProxyHandler,
	opts RouterOptions,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(CORSMiddleware())
	router.Use(PreflightMiddleware())
	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/chia-cat-prices", portfolioHandler.GetChiaPricesHandler)
		api.GET("/treasury-comprehensive", portfolioHandler.GetHoldingsHandler)
		api.GET("/treasury", portfolioHandler.GetTreasuryHandler)
		api.GET("/market", marketHandler.GetMarketHandler)
		api.POST("/chia-collections", marketHandler.PostCollectionsHandler)
		api.GET("/spacescan-proxy", proxyHandler.GetSpacescanProxyHandler)
		api.GET("/chia-address-proxy", proxyHandler.AddressProxyHandler)
		api.POST("/chia-address-proxy", proxyHandler.AddressProxyHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerEnabled && opts.SwaggerSpecFile != "" {
		router.StaticFile("/docs/swagger.yaml", opts.SwaggerSpecFile)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	}

	return router
}
