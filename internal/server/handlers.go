package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/reporting"
	"seller-intel-engine/internal/storage"
)

type stockHealthRequest struct {
	ProductID    string               `json:"product_id"`
	Product      *domain.Product      `json:"product,omitempty"`
	History      []domain.SalesRecord `json:"history,omitempty"`
	LeadTimeDays int                  `json:"lead_time_days"`
}

type restockRequest struct {
	ProductIDs []string `json:"product_ids,omitempty"`
}

type restockResponse struct {
	GeneratedAt      time.Time                      `json:"generated_at"`
	ProductCount     int                            `json:"product_count"`
	TotalRecommended int                            `json:"total_recommended"`
	HighRiskCount    int                            `json:"high_risk_count"`
	DegradedCount    int                            `json:"degraded_count"`
	ForecastFailures int                            `json:"forecast_failures"`
	Recommendations  []domain.RestockRecommendation `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStockHealth evaluates depletion and dead-stock rules for one product.
// The product may be supplied inline or referenced by product_id, in which
// case its record and sales history are loaded from storage.
func (s *Server) handleStockHealth(c echo.Context) error {
	var req stockHealthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	ctx := c.Request().Context()
	product := req.Product
	history := req.History
	productID := req.ProductID
	if product != nil && productID == "" {
		productID = product.ID
	}

	if product == nil {
		if productID == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "product_id or product is required"})
		}
		stored, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		product = stored
	}

	if history == nil {
		if len(product.SalesHistory) > 0 {
			history = product.SalesHistory
		} else if s.sales != nil {
			stored, err := s.sales.GetByProductID(ctx, productID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			history = stored
		}
	}

	leadTime := req.LeadTimeDays
	if leadTime <= 0 {
		leadTime = product.LeadTimeDays
	}

	result := s.guard.PredictStockHealth(ctx, productID, history, leadTime, product)
	s.recordHealthMetrics(result)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) recordHealthMetrics(result *domain.StockHealthResult) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if !result.OK {
		outcome = "error"
	}
	s.metrics.HealthEvaluations.WithLabelValues(outcome).Inc()
	if result.Action != nil {
		s.metrics.ActionsEmitted.WithLabelValues(string(result.Action.Type)).Inc()
	}
	for _, action := range result.Actions {
		s.metrics.ActionsEmitted.WithLabelValues(string(action.Type)).Inc()
	}
}

// handleRestock runs a restock batch: over the requested product IDs, or the
// whole catalog when none are given.
func (s *Server) handleRestock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	ctx := c.Request().Context()
	start := time.Now()

	var report *reporting.RestockReport
	if len(req.ProductIDs) == 0 {
		full, err := s.generator.Generate(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		report = full
	} else {
		products := make([]*domain.Product, 0, len(req.ProductIDs))
		for _, id := range req.ProductIDs {
			p, err := s.products.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found: " + id})
				}
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			if len(p.SalesHistory) == 0 && s.sales != nil {
				history, err := s.sales.GetByProductID(ctx, id)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
				}
				p.SalesHistory = history
			}
			products = append(products, p)
		}
		report = s.generator.GenerateFor(ctx, products)
	}

	if s.metrics != nil {
		s.metrics.RestockBatchSize.Observe(float64(report.ProductCount))
		s.metrics.RestockBatchDuration.Observe(time.Since(start).Seconds())
	}

	return c.JSON(http.StatusOK, restockResponse{
		GeneratedAt:      report.GeneratedAt,
		ProductCount:     report.ProductCount,
		TotalRecommended: report.TotalRecommended,
		HighRiskCount:    report.HighRiskCount,
		DegradedCount:    report.DegradedCount,
		ForecastFailures: report.ForecastFailures,
		Recommendations:  report.Recommendations,
	})
}

// handleCreateOrder ingests one order and returns its summary.
func (s *Server) handleCreateOrder(c echo.Context) error {
	var order domain.Order
	if err := c.Bind(&order); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if order.ProductID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "product_id is required"})
	}

	summary, err := s.orders.ProcessOrder(c.Request().Context(), &order)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OrderProcessErrs.Inc()
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	if s.metrics != nil {
		s.metrics.OrdersProcessed.Inc()
	}
	return c.JSON(http.StatusCreated, summary)
}

func (s *Server) handleDashboard(c echo.Context) error {
	summaries, err := s.orders.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(summaries),
		"orders": summaries,
	})
}

func (s *Server) handleUpsertProduct(c echo.Context) error {
	var product domain.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if product.ID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "id is required"})
	}
	if err := s.products.Upsert(c.Request().Context(), &product); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, product)
}

// handleVelocity reports average units sold per day for one product over the
// trailing window, answered from the analytics backend.
func (s *Server) handleVelocity(c echo.Context) error {
	if s.analytics == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "analytics backend not enabled"})
	}
	productID := c.QueryParam("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "product_id is required"})
	}
	days, err := trailingDays(c.QueryParam("days"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	velocity, err := s.analytics.VelocityBetween(c.Request().Context(), productID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"product_id":       productID,
		"days":             days,
		"velocity_per_day": velocity,
	})
}

// handleVolume reports total units sold per product over the trailing window.
func (s *Server) handleVolume(c echo.Context) error {
	if s.analytics == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "analytics backend not enabled"})
	}
	days, err := trailingDays(c.QueryParam("days"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	totals, err := s.analytics.TotalQtyByProduct(c.Request().Context(), from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"days":   days,
		"totals": totals,
	})
}

// trailingDays parses the days query parameter, defaulting to 30.
func trailingDays(raw string) (int, error) {
	if raw == "" {
		return 30, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, errors.New("days must be a positive integer")
	}
	return days, nil
}

func (s *Server) handleGetProduct(c echo.Context) error {
	product, err := s.products.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, product)
}
