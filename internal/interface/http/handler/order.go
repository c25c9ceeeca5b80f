package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/easyshop/internal/application/order"
	"github.com/xiebiao/easyshop/internal/interface/http/dto"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/pkg/response"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	checkoutUseCase *apporder.CheckoutUseCase
	queryUseCase    *apporder.QueryUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(checkoutUseCase *apporder.CheckoutUseCase, queryUseCase *apporder.QueryUseCase) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase: checkoutUseCase,
		queryUseCase:    queryUseCase,
	}
}

// Checkout 结算下单
// @Summary      结算
// @Description  把当前用户的购物车原子地转换为订单：写入订单和明细并清空购物车，要么全部成功要么全部不生效
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "购物车为空或缺少收货资料"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "用户不存在"
// @Failure      500 {object} response.Response "系统错误或超时"
// @Router       /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	o, err := h.checkoutUseCase.Execute(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewOrderResponse(o))
}

// List 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.OrderResponse}}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queryUseCase.List(c.Request.Context(), middleware.GetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewOrderList(result.Orders), result.Total, result.Page, result.PageSize)
}

// Get 订单详情
// @Summary      订单详情（含明细）
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.queryUseCase.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}
