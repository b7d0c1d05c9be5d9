package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"contribution-service/internal/models"
	"contribution-service/internal/services"
	"contribution-service/pkg/common"
)

// AdminHandler exposes the staff-only endpoints: unmatched transaction
// review, manual resolution, category management and manual entries.
type AdminHandler struct {
	DB            *gorm.DB
	Resolutions   *services.ResolutionService
	Categories    *services.CategoryService
	Contributions *services.ManualContributionService
}

func NewAdminHandler(db *gorm.DB, resolutions *services.ResolutionService, categories *services.CategoryService, contributions *services.ManualContributionService) *AdminHandler {
	return &AdminHandler{
		DB:            db,
		Resolutions:   resolutions,
		Categories:    categories,
		Contributions: contributions,
	}
}

// ListUnmatched returns unmatched C2B transactions awaiting manual
// resolution, newest first, paginated.
func (h *AdminHandler) ListUnmatched(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	query := h.DB.Model(&models.C2BTransaction{}).Where("status = ?", models.TxStatusUnmatched)
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	var transactions []models.C2BTransaction
	err := query.Order("trans_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, common.PaginateResponse(transactions, total, page, limit, ""))
}

type resolveRequest struct {
	TransactionID uint `json:"transaction_id" binding:"required"`
	CategoryID    uint `json:"category_id" binding:"required"`
}

// Resolve assigns a category to an unmatched transaction.
func (h *AdminHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	result := h.Resolutions.ResolveUnmatched(req.TransactionID, req.CategoryID)
	if !result.Success {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(result.Message, nil, http.StatusBadRequest))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, result.Message))
}

// ListCategories returns the active categories contributors can pay into.
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.Categories.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(categories, "success"))
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory adds a new contribution category.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	category, err := h.Categories.Create(req.Name, req.Code, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Failed to create category: "+err.Error(), nil, http.StatusBadRequest))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(category, "Category created"))
}

// CreateManualContribution records a manual, cash or envelope entry.
func (h *AdminHandler) CreateManualContribution(c *gin.Context) {
	var req services.ManualContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	result := h.Contributions.CreateManualContribution(req)
	if !result.Success {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(result.Message, nil, http.StatusBadRequest))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, result.Message))
}
