package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherService
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(voucherService portssvc.VoucherService) *voucherHandler {
	return &voucherHandler{voucherService: voucherService}
}

// createDraft creates a new DRAFT voucher from the request body.
func (h *voucherHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.CreateDraft(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to create voucher draft")
		return
	}

	logger.Info("Voucher draft created", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher retrieves a voucher with its lines.
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), voucherID)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to retrieve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers retrieves a filtered, token-paginated page of voucher headers.
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, page)
}

// postVoucher transitions a DRAFT voucher to POSTED, allocating its number.
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), voucherID, actorID)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to post voucher")
		return
	}

	logger.Info("Voucher posted", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// reverseVoucher posts the inverse of a POSTED voucher and marks the original REVERSED.
func (h *voucherHandler) reverseVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversal, err := h.voucherService.ReverseVoucher(c.Request.Context(), voucherID, actorID)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to reverse voucher")
		return
	}

	logger.Info("Voucher reversed",
		slog.String("voucher_id", voucherID),
		slog.String("reversal_voucher_id", reversal.VoucherID),
	)
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(reversal))
}

// duplicateVoucher returns an unsaved DRAFT candidate copied from a voucher.
func (h *voucherHandler) duplicateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	candidate, lines, err := h.voucherService.DuplicateVoucher(c.Request.Context(), voucherID, actorID)
	if err != nil {
		respondVoucherError(c, logger, err, "Failed to duplicate voucher")
		return
	}

	candidate.Lines = lines
	c.JSON(http.StatusOK, dto.ToVoucherResponse(candidate))
}

// updateNotes updates the free-text notes of a voucher in any status.
func (h *voucherHandler) updateNotes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	var req dto.UpdateVoucherNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.voucherService.EditNotes(c.Request.Context(), voucherID, req.Notes, actorID); err != nil {
		respondVoucherError(c, logger, err, "Failed to update voucher notes")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateLines replaces the full line set of a DRAFT voucher.
func (h *voucherHandler) updateLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	var req dto.UpdateVoucherLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.voucherService.EditLines(c.Request.Context(), voucherID, req, actorID); err != nil {
		respondVoucherError(c, logger, err, "Failed to update voucher lines")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondVoucherError maps service errors onto HTTP statuses.
func respondVoucherError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Voucher not found"})
	case errors.Is(err, services.ErrScopeClosed):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotDraft),
		errors.Is(err, services.ErrAlreadyPosted),
		errors.Is(err, services.ErrNotPosted),
		errors.Is(err, services.ErrAlreadyReversed):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrSequenceExhausted):
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: logMsg})
	}
}

// registerVoucherRoutes registers voucher specific routes.
func registerVoucherRoutes(group *gin.RouterGroup, voucherService portssvc.VoucherService) {
	h := newVoucherHandler(voucherService)

	vouchers := group.Group("/vouchers")
	{
		vouchers.POST("", h.createDraft)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.POST("/:voucherID/post", h.postVoucher)
		vouchers.POST("/:voucherID/reverse", h.reverseVoucher)
		vouchers.POST("/:voucherID/duplicate", h.duplicateVoucher)
		vouchers.PUT("/:voucherID/notes", h.updateNotes)
		vouchers.PUT("/:voucherID/lines", h.updateLines)
	}
}
