package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/services"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{
		productService: services.NewProductService(),
	}
}

func parseProductFilter(c *gin.Context) models.ProductFilter {
	filter := models.ProductFilter{
		Search:     c.Query("search"),
		GenderSlug: c.Query("gender"),
		ColorSlug:  c.Query("color"),
		SizeSlug:   c.Query("size"),
		Category:   c.Query("category"),
		Sort:       c.Query("sort"),
	}

	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "24")); err == nil {
		filter.Limit = v
	}
	if raw := c.Query("price_min"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.PriceMin = &v
		}
	}
	if raw := c.Query("price_max"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.PriceMax = &v
		}
	}

	return filter
}

// GetProducts godoc
// @Summary List products
// @Description Browse the catalog with filtering, sorting and pagination
// @Tags Products
// @Produce json
// @Param search query string false "Search by product name"
// @Param gender query string false "Gender slug"
// @Param color query string false "Color slug"
// @Param size query string false "Size slug"
// @Param category query string false "Category slug"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Param sort query string false "Sort order" Enums(newest, price_asc, price_desc)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.PaginationResponse
// @Router /products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	result, err := ctrl.productService.GetProducts(c.Request.Context(), parseProductFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProductByID godoc
// @Summary Get product detail
// @Description Product page payload with variants and images
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	detail, err := ctrl.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve product"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    detail,
	})
}

// GetCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	categories, err := ctrl.productService.GetAllCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve categories"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// GetFilterOptions godoc
// @Summary List filter options
// @Description Genders, colors and sizes available for catalog filtering
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /products/filters [get]
func (ctrl *ProductController) GetFilterOptions(c *gin.Context) {
	ctx := c.Request.Context()

	genders, err := ctrl.productService.GetAllGenders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve filters"})
		return
	}
	colors, err := ctrl.productService.GetAllColors(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve filters"})
		return
	}
	sizes, err := ctrl.productService.GetAllSizes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve filters"})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Filter options retrieved successfully",
		Data: gin.H{
			"genders": genders,
			"colors":  colors,
			"sizes":   sizes,
		},
	})
}
