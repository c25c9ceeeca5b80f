package handler

import (
	"github.com/gin-gonic/gin"

	appprofile "github.com/xiebiao/easyshop/internal/application/profile"
	"github.com/xiebiao/easyshop/internal/interface/http/dto"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/pkg/response"
)

// ProfileHandler 收货资料处理器
type ProfileHandler struct {
	useCase *appprofile.UseCase
}

// NewProfileHandler 创建资料处理器
func NewProfileHandler(useCase *appprofile.UseCase) *ProfileHandler {
	return &ProfileHandler{useCase: useCase}
}

// Get 查询我的资料
// @Summary      查询收货资料
// @Tags         资料
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ProfileResponse}
// @Failure      404 {object} response.Response "资料不存在"
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.useCase.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProfileResponse(p))
}

// Update 修改我的资料
// @Summary      修改收货资料
// @Description  整体覆盖；已生成订单的地址快照不受影响
// @Tags         资料
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ProfileRequest true "资料"
// @Success      200 {object} response.Response{data=dto.ProfileResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.useCase.Update(c.Request.Context(), middleware.GetUserID(c), appprofile.UpdateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProfileResponse(p))
}
