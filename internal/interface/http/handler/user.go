package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/easyshop/internal/application/user"
	"github.com/xiebiao/easyshop/internal/interface/http/dto"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	"github.com/xiebiao/easyshop/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应，不包含业务逻辑
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	refreshUseCase  *appuser.RefreshTokenUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		refreshUseCase:  refreshUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建用户并初始化空的收货资料；创建ROLE_ADMIN需要管理员Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=dto.UserResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误或用户名已存在"
// @Failure      403 {object} response.Response "非管理员创建管理员账号"
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		CallerRole:      middleware.GetRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.UserResponse{
		ID:       result.ID,
		Username: result.Username,
		Role:     result.Role,
	})
}

// Login 用户登录
// @Summary      用户登录
// @Description  校验用户名密码，返回JWT Token对
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		User: dto.UserResponse{
			ID:       result.User.ID,
			Username: result.User.Username,
			Role:     result.User.Role,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并把当前Access Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(
		c.Request.Context(),
		middleware.GetUserID(c),
		middleware.GetAccessToken(c),
		middleware.GetTokenExpiresAt(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=dto.RefreshResponse}
// @Failure      401 {object} response.Response "Token无效或已过期"
// @Router       /users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.RefreshResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}
