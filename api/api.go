package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"indexcap/internal/app"
	"indexcap/internal/domain"
	"indexcap/internal/logger"
	"indexcap/internal/repository"
	"indexcap/internal/service"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApiHandler struct {
	Db                 *sql.DB
	ProposalService    service.ProposalService
	ProposalRepository repository.ProposalRepository
	RebalancerApp      app.RebalancerApp
	Presets            domain.ParamsTable
	Gatherer           prometheus.Gatherer
	JwtDecodeToken     string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to indexcap"})
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"status": "ok"})
	})

	gatherer := m.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.POST("/proposals/compute", m.computeProposal)
	router.POST("/proposals/proforma", m.proForma)
	router.GET("/indexes/:indexID/proposals/latest", m.getLatestProposal)

	authorized := router.Group("/", m.requireRole(serviceRole))
	authorized.POST("/indexes/:indexID/rebalance", m.rebalance)
	authorized.POST("/scheduled", m.runScheduled)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, http.StatusInternalServerError)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c).Errorw(err.Error(), "status", code)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddlware attaches a request-scoped logger to the gin
// context and logs one line per request once the handler is done
func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	requestID := ctx.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	lg := logger.New().With(
		"requestID", requestID,
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
	)
	ctx.Set(logger.ContextKey, lg)
	ctx.Header("X-Request-Id", requestID)

	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	start := time.Now().UTC()
	ctx.Next()

	status := ctx.Writer.Status()
	fields := []any{
		"status", status,
		"durationMs", time.Since(start).Milliseconds(),
		"ip", ctx.ClientIP(),
	}
	if status >= 400 {
		fields = append(fields, "response", w.body.String())
		lg.Warnw("request failed", fields...)
		return
	}
	lg.Infow("request complete", fields...)
}
