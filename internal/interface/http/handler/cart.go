package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/easyshop/internal/application/cart"
	"github.com/xiebiao/easyshop/internal/interface/http/dto"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/pkg/response"
)

// CartHandler 购物车处理器（均需登录，只操作自己的购物车）
type CartHandler struct {
	useCase *appcart.UseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(useCase *appcart.UseCase) *CartHandler {
	return &CartHandler{useCase: useCase}
}

// Get 查询我的购物车
// @Summary      查询购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sc, err := h.useCase.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartResponse(sc))
}

// AddProduct 加入商品
// @Summary      加入购物车
// @Description  已在购物车中则数量+1
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /cart/products/{id} [post]
func (h *CartHandler) AddProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sc, err := h.useCase.AddProduct(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartResponse(sc))
}

// UpdateQuantity 修改数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateQuantityRequest true "数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response "购物车中没有该商品"
// @Router       /cart/products/{id} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sc, err := h.useCase.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartResponse(sc))
}

// Clear 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.useCase.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
