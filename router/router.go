package router

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"expenses/api"
	"expenses/config"
	_ "expenses/docs"
	"expenses/middleware"
	"expenses/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// standardMethods every verb gin routes; the ones an endpoint does not serve get a 405
var standardMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodTrace,
}

// SetupRouter builds the engine. Background resources such as the write limiter live until ctx is done.
func SetupRouter(ctx context.Context, cfg *config.Config, store api.ExpenseStore, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(CORSMiddleware(cfg.Server.AllowedOrigin))

	// embedded single page
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(web.StaticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "falha ao carregar a página")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	var writeLimit []gin.HandlerFunc
	if cfg.RateLimit.MaxWrites > 0 {
		limiter := middleware.NewWriteLimiter(cfg.RateLimit.MaxWrites, cfg.RateLimit.Window)
		context.AfterFunc(ctx, limiter.Stop)
		writeLimit = append(writeLimit, limiter.Handler())
	}
	withLimit := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeLimit...), h)
	}

	expenseHandler := api.NewExpenseHandler(store)
	exportHandler := api.NewExportHandler(store)
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/expenses", expenseHandler.List)
		apiGroup.POST("/expenses", withLimit(expenseHandler.Create)...)
		allowOnly(apiGroup, "/expenses", http.MethodGet, http.MethodPost)

		// the bare trailing-slash path is a delete without an id
		apiGroup.DELETE("/expenses/", withLimit(expenseHandler.Delete)...)
		apiGroup.DELETE("/expenses/:id", withLimit(expenseHandler.Delete)...)
		allowOnly(apiGroup, "/expenses/", http.MethodDelete)
		allowOnly(apiGroup, "/expenses/:id", http.MethodDelete)

		apiGroup.GET("/export/csv", exportHandler.ExportCSV)
		apiGroup.GET("/export/xlsx", exportHandler.ExportExcel)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}

// allowOnly registers a 405 handler for every standard method not in allowed
func allowOnly(g *gin.RouterGroup, path string, allowed ...string) {
	reject := api.MethodNotAllowed(allowed...)
	for _, m := range standardMethods {
		if contains(allowed, m) {
			continue
		}
		g.Handle(m, path, reject)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CORSMiddleware CORS headers. Only a real preflight is answered here; a bare OPTIONS
// reaches the route and gets its 405.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Allow, X-Request-ID")

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
