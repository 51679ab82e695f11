package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/middlewares"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/models/reports"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"bitbucket.org/mmdatafocus/venues_backend/workflow"
)

const defaultPort = "8080"

var tracer trace.Tracer = otel.Tracer("venues-backend")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// respondError maps workflow/model errors onto the wire contract: missing
// referenced entities are plain-text 404, validation problems plain-text 400,
// anything else plain-text 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrDayAlreadyClosed):
		c.String(http.StatusBadRequest, err.Error())
	case isValidationError(err):
		c.String(http.StatusBadRequest, err.Error())
	default:
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "required") ||
		strings.Contains(msg, "cannot exceed") ||
		strings.Contains(msg, "No valid") ||
		strings.Contains(msg, "no valid") ||
		strings.Contains(msg, "CSV")
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func closeDayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.CloseDayInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.String(http.StatusBadRequest, "Missing venue_id or business_date")
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "workflow.ProcessCloseDay")
		defer span.End()
		result, err := workflow.ProcessCloseDay(ctx, config.GetLogger(), input)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Close-day processing complete",
			"data": gin.H{
				"sales_processed":      result.SalesProcessed,
				"transactions_created": result.TransactionsCreated,
				"insights_generated":   result.InsightsGenerated,
				"labor_variance":       result.LaborVariance,
				"allocations":          result.Allocations,
			},
		})
	}
}

func laborPlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.LaborPlanInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.String(http.StatusBadRequest, "Missing venue_id or forecast_date")
			return
		}
		result, err := workflow.BuildLaborPlan(c.Request.Context(), config.GetLogger(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, result)
	}
}

func ordersSuggestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.OrdersSuggestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.String(http.StatusBadRequest, "Missing venue_id")
			return
		}
		result, err := workflow.BuildOrderSuggestions(c.Request.Context(), config.GetLogger(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, result)
	}
}

func ingestToastHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.ToastWebhookInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.String(http.StatusBadRequest, "Missing required fields")
			return
		}
		if err := workflow.IngestToast(c.Request.Context(), config.GetLogger(), input); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, "Toast POS data ingested successfully", nil)
	}
}

func ingestAlohaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.AlohaCSVInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.String(http.StatusBadRequest, "Missing venue_id or csv_data")
			return
		}
		processed, err := workflow.IngestAloha(c.Request.Context(), config.GetLogger(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c,
			fmt.Sprintf("Aloha POS data ingested successfully. %d records processed.", processed),
			gin.H{"records_processed": processed})
	}
}

func createVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
		if !ok {
			orgId = c.Query("org_id")
		}
		if orgId == "" {
			c.String(http.StatusBadRequest, "org_id is required")
			return
		}
		var input models.NewVenue
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		venue, err := models.CreateVenue(c.Request.Context(), orgId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, venue)
	}
}

func listVenuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
		if !ok {
			orgId = c.Query("org_id")
		}
		venues, err := models.ListVenues(c.Request.Context(), orgId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, venues)
	}
}

func getVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, err := models.GetVenue(c.Request.Context(), c.Param("venueId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, venue)
	}
}

func updateVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateVenueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		venue, err := models.UpdateVenue(c.Request.Context(), c.Param("venueId"), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, venue)
	}
}

// venueId resolves the venue from the route param or query string.
func venueId(c *gin.Context) (string, bool) {
	id := c.Param("venueId")
	if id == "" {
		id = c.Query("venue_id")
	}
	if id == "" {
		c.String(http.StatusBadRequest, "venue_id is required")
		return "", false
	}
	return id, true
}

func createEnvelopeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewCashEnvelope
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		envelope, err := models.CreateCashEnvelope(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, envelope)
	}
}

func listEnvelopesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		envelopes, err := models.ListCashEnvelopes(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, envelopes)
	}
}

func updateEnvelopeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		envelopeId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid envelope id")
			return
		}
		var input models.UpdateCashEnvelopeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		envelope, err := models.UpdateCashEnvelopeTarget(c.Request.Context(), id, envelopeId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, envelope)
	}
}

func listEnvelopeTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		envelopeId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid envelope id")
			return
		}
		rows, err := models.ListEnvelopeTransactions(c.Request.Context(), id, envelopeId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, rows)
	}
}

func createSkuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewSku
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		sku, err := models.CreateSku(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, sku)
	}
}

func listSkusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		skus, err := models.ListSkus(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, skus)
	}
}

func createInventoryCountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewInventoryCount
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		count, err := models.CreateInventoryCount(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, count)
	}
}

func listInventoryCountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		skuId, _ := strconv.Atoi(c.Query("sku_id"))
		counts, err := models.ListInventoryCounts(c.Request.Context(), id, skuId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, counts)
	}
}

func upsertStaffingTargetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.UpsertStaffingTargetInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		target, err := models.UpsertStaffingTarget(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, target)
	}
}

func getStaffingTargetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		target, err := models.GetStaffingTarget(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, target)
	}
}

func createRoleWageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewRoleWage
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		wage, err := models.CreateRoleWage(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, wage)
	}
}

func listRoleWagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		wages, err := models.ListRoleWages(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, wages)
	}
}

func createShiftHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewShift
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		shift, err := models.CreateShift(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, shift)
	}
}

func listShiftsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		date, err := utils.ParseBusinessDate(c.Query("date"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid date")
			return
		}
		shifts, err := models.ListShiftsForDate(c.Request.Context(), id, date)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, shifts)
	}
}

func listDailySalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var from, to time.Time
		if v := c.Query("from"); v != "" {
			parsed, err := utils.ParseBusinessDate(v)
			if err != nil {
				c.String(http.StatusBadRequest, "invalid from date")
				return
			}
			from = parsed
		}
		if v := c.Query("to"); v != "" {
			parsed, err := utils.ParseBusinessDate(v)
			if err != nil {
				c.String(http.StatusBadRequest, "invalid to date")
				return
			}
			to = parsed
		}
		rows, err := models.ListDailySales(c.Request.Context(), id, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, rows)
	}
}

func createGrowthGoalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
		if !ok {
			orgId = c.Query("org_id")
		}
		if orgId == "" {
			c.String(http.StatusBadRequest, "org_id is required")
			return
		}
		var input models.NewGrowthGoal
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		goal, err := models.CreateGrowthGoal(c.Request.Context(), orgId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, goal)
	}
}

func growthProgressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
		if !ok {
			orgId = c.Query("org_id")
		}
		goalId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid goal id")
			return
		}
		id, ok := venueId(c)
		if !ok {
			return
		}

		goal, err := models.GetGrowthGoal(c.Request.Context(), orgId, goalId)
		if err != nil {
			respondError(c, err)
			return
		}

		avgSales, sampleDays, err := models.AverageDailyNetSales(c.Request.Context(), id, 28)
		if err != nil {
			respondError(c, err)
			return
		}
		if sampleDays == 0 {
			avgSales = config.FallbackForecastSales()
		}

		growthFund := decimal.Zero
		growthPct := decimal.NewFromInt(8)
		envelopes, err := models.ListCashEnvelopes(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, envelope := range envelopes {
			if strings.EqualFold(envelope.Name, "growth") {
				growthFund = envelope.CurrentBalance
				growthPct = envelope.TargetPct
				break
			}
		}

		metrics := workflow.CalculateGrowthMetrics(goal, growthFund, avgSales, growthPct)
		respondData(c, metrics)
	}
}

func listInsightsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var date time.Time
		if v := c.Query("business_date"); v != "" {
			parsed, err := utils.ParseBusinessDate(v)
			if err != nil {
				c.String(http.StatusBadRequest, "invalid business_date")
				return
			}
			date = parsed
		}
		insights, err := models.ListInsights(c.Request.Context(), id, date)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, insights)
	}
}

func applyInsightHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		insightId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid insight id")
			return
		}
		insight, err := models.ApplyInsight(c.Request.Context(), id, insightId)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, insight)
	}
}

func createPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		po, err := models.CreatePurchaseOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, po)
	}
}

func listPurchaseOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		orders, err := models.ListPurchaseOrders(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, orders)
	}
}

func dailySalesExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := venueId(c)
		if !ok {
			return
		}
		var from, to time.Time
		if v := c.Query("from"); v != "" {
			from, _ = utils.ParseBusinessDate(v)
		}
		if v := c.Query("to"); v != "" {
			to, _ = utils.ParseBusinessDate(v)
		}
		rows, err := models.ListDailySales(c.Request.Context(), id, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		reports.WriteDailySalesExcel(c.Writer, rows)
	}
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, utils.ProcessValidationErrors(err))
			return
		}
		result, err := models.Login(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondData(c, result)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := utils.GetTokenFromContext(c.Request.Context())
		if err := models.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, "logged out", nil)
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB is ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness. Redis is optional.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/auth/login", loginHandler())
	r.POST("/auth/logout", logoutHandler())

	r.POST("/close-day", closeDayHandler())
	r.POST("/labor-plan", laborPlanHandler())
	r.POST("/orders-suggest", ordersSuggestHandler())
	r.POST("/ingest/toast", ingestToastHandler())
	r.POST("/ingest/aloha", ingestAlohaHandler())

	r.POST("/venues", createVenueHandler())
	r.GET("/venues", listVenuesHandler())
	r.GET("/venues/:venueId", getVenueHandler())
	r.PUT("/venues/:venueId", updateVenueHandler())

	venue := r.Group("/venues/:venueId")
	{
		venue.POST("/envelopes", createEnvelopeHandler())
		venue.GET("/envelopes", listEnvelopesHandler())
		venue.PUT("/envelopes/:id", updateEnvelopeHandler())
		venue.GET("/envelopes/:id/transactions", listEnvelopeTransactionsHandler())

		venue.POST("/skus", createSkuHandler())
		venue.GET("/skus", listSkusHandler())
		venue.POST("/inventory-counts", createInventoryCountHandler())
		venue.GET("/inventory-counts", listInventoryCountsHandler())

		venue.PUT("/staffing-target", upsertStaffingTargetHandler())
		venue.GET("/staffing-target", getStaffingTargetHandler())
		venue.POST("/roles-wages", createRoleWageHandler())
		venue.GET("/roles-wages", listRoleWagesHandler())
		venue.POST("/shifts", createShiftHandler())
		venue.GET("/shifts", listShiftsHandler())

		venue.GET("/daily-sales", listDailySalesHandler())
		venue.GET("/insights", listInsightsHandler())
		venue.POST("/insights/:id/apply", applyInsightHandler())

		venue.POST("/purchase-orders", createPurchaseOrderHandler())
		venue.GET("/purchase-orders", listPurchaseOrdersHandler())
	}

	r.POST("/growth-goals", createGrowthGoalHandler())
	r.GET("/growth-goals/:id/progress", growthProgressHandler())

	r.GET("/reports/daily-sales.xlsx", dailySalesExportHandler())

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<minInt(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP()

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
