package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodService
}

// newFiscalPeriodHandler creates a new fiscalPeriodHandler.
func newFiscalPeriodHandler(periodService portssvc.FiscalPeriodService) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{periodService: periodService}
}

// listPeriods retrieves all fiscal periods of a company.
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID is required"})
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list fiscal periods", slog.String("error", err.Error()), slog.String("company_id", companyID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list fiscal periods"})
		return
	}

	resp := make([]dto.FiscalPeriodResponse, len(periods))
	for i := range periods {
		resp[i] = dto.ToFiscalPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, gin.H{"periods": resp})
}

// closePeriod stops a fiscal period from accepting new postings.
func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	h.setPeriodStatus(c, func(actorID string) error {
		return h.periodService.ClosePeriod(c.Request.Context(), c.Query("companyID"), c.Param("periodCode"), actorID)
	})
}

// reopenPeriod lets a closed fiscal period accept postings again.
func (h *fiscalPeriodHandler) reopenPeriod(c *gin.Context) {
	h.setPeriodStatus(c, func(actorID string) error {
		return h.periodService.ReopenPeriod(c.Request.Context(), c.Query("companyID"), c.Param("periodCode"), actorID)
	})
}

func (h *fiscalPeriodHandler) setPeriodStatus(c *gin.Context, op func(actorID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if c.Query("companyID") == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID is required"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := op(actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fiscal period not found"})
			return
		}
		logger.Error("Failed to change fiscal period status", slog.String("error", err.Error()), slog.String("period_code", c.Param("periodCode")))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to change fiscal period status"})
		return
	}

	c.Status(http.StatusNoContent)
}

// registerFiscalPeriodRoutes registers fiscal period specific routes.
func registerFiscalPeriodRoutes(group *gin.RouterGroup, periodService portssvc.FiscalPeriodService) {
	h := newFiscalPeriodHandler(periodService)

	periods := group.Group("/fiscal-periods")
	{
		periods.GET("", h.listPeriods)
		periods.POST("/:periodCode/close", h.closePeriod)
		periods.POST("/:periodCode/reopen", h.reopenPeriod)
	}
}
