package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fulfillment-service/internal/service"
	"fulfillment-service/internal/store"
	"fulfillment-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	allocation  *service.AllocationService
	inventory   *service.InventoryCache
	tracker     *service.StatusTracker
	maxPageSize int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	allocation *service.AllocationService,
	inventory *service.InventoryCache,
	tracker *service.StatusTracker,
	maxPageSize int,
) *Handler {
	return &Handler{
		allocation:  allocation,
		inventory:   inventory,
		tracker:     tracker,
		maxPageSize: maxPageSize,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// unversioned aliases kept for existing warehouse clients
	router.POST("/pick-lists", h.createPickBatch)
	router.GET("/pick-lists", h.listPickLists)
	router.GET("/pick-lists/:id", h.getPickList)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/pick-lists", h.createPickBatch)
		v1.GET("/pick-lists", h.listPickLists)
		v1.GET("/pick-lists/:id", h.getPickList)
		v1.GET("/orders/:id/history", h.getOrderHistory)
		v1.GET("/inventory/:variantId", h.getInventory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createPickBatch handles pick batch creation
func (h *Handler) createPickBatch(c *gin.Context) {
	var req service.CreatePickBatchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	req.ActorID = c.GetHeader("X-Actor-ID")

	result, err := h.allocation.CreatePickBatch(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownWorker), errors.Is(err, service.ErrNoEligibleOrders):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid pick batch request",
				"details": err.Error(),
			})
		case errors.Is(err, service.ErrOrderLocked):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Order is already being allocated",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to create pick batch",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// listPickLists handles the filtered, paged pick list listing
func (h *Handler) listPickLists(c *gin.Context) {
	filter := store.PickListFilter{Page: 1, Limit: 20}

	if status := c.Query("status"); status != "" {
		for _, s := range strings.Split(status, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, s)
			}
		}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if filter.Limit > h.maxPageSize {
		filter.Limit = h.maxPageSize
	}

	page, err := h.allocation.ListPickLists(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list pick lists",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// getPickList handles get pick list by ID
func (h *Handler) getPickList(c *gin.Context) {
	pickList, items, err := h.allocation.GetPickList(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Pick list not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pickList": pickList,
		"items":    items,
	})
}

// getOrderHistory handles the order status trail lookup
func (h *Handler) getOrderHistory(c *gin.Context) {
	history, err := h.tracker.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load order history",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// getInventory handles the per-variant ledger lookup
func (h *Handler) getInventory(c *gin.Context) {
	records, err := h.inventory.Ledger(c.Request.Context(), c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load inventory",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory": records})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
