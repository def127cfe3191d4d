package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db *database.Database
}

func NewCategoryHandler(db *database.Database) *CategoryHandler {
	return &CategoryHandler{db: db}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.db.GetCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, dto.NewCategoryList(categories))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, apperr.NotFound("Category not found"))
		return
	}

	category, err := h.db.GetCategory(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, apperr.NotFound("Category not found"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.NewCategoryResponse(category))
}

// GetSubcategories: все подкатегории или только одной категории (?categoryId=)
func (h *CategoryHandler) GetSubcategories(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fail(c, apperr.Validation("Validation error").WithField("categoryId", "Must be a number"))
			return
		}
		v := uint(id)
		categoryID = &v
	}

	subs, err := h.db.GetSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, dto.NewSubcategoryList(subs))
}

func (h *CategoryHandler) GetSubcategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, apperr.NotFound("Subcategory not found"))
		return
	}

	sub, err := h.db.GetSubcategory(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, apperr.NotFound("Subcategory not found"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.NewSubcategoryResponse(sub))
}
