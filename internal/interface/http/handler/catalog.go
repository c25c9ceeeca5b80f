package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/easyshop/internal/application/catalog"
	"github.com/xiebiao/easyshop/internal/interface/http/dto"
	"github.com/xiebiao/easyshop/pkg/response"
)

// CatalogHandler 分类与商品处理器
// 查询接口公开，写接口在路由层限制为ROLE_ADMIN
type CatalogHandler struct {
	categories *catalog.CategoryUseCase
	products   *catalog.ProductUseCase
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(categories *catalog.CategoryUseCase, products *catalog.ProductUseCase) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products}
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryList(list))
}

// GetCategory 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryResponse(cat))
}

// CategoryProducts 分类下的商品
// @Summary      分类下的商品
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id}/products [get]
func (h *CatalogHandler) CategoryProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.categories.Products(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductList(list))
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类"
// @Success      201 {object} response.Response{data=dto.CategoryResponse}
// @Failure      400 {object} response.Response "参数错误或名称重复"
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), catalog.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCategoryResponse(cat))
}

// UpdateCategory 修改分类
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.CategoryRequest true "分类"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), id, catalog.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryResponse(cat))
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Tags         分类
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SearchProducts 商品搜索
// @Summary      商品搜索
// @Description  按分类、价格区间（闭区间）、颜色过滤，参数都可选
// @Tags         商品
// @Produce      json
// @Param        cat      query int    false "分类ID"
// @Param        minPrice query string false "最低价"
// @Param        maxPrice query string false "最高价"
// @Param        color    query string false "颜色"
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /products [get]
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	var q dto.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	params, err := q.ToSearchParams()
	if err != nil {
		bindError(c, err)
		return
	}

	list, err := h.products.Search(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductList(list))
}

// GetProduct 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductResponse(p))
}

// CreateProduct 创建商品
// @Summary      创建商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ProductRequest true "商品"
// @Success      201 {object} response.Response{data=dto.ProductResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.products.Create(c.Request.Context(), toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewProductResponse(p))
}

// UpdateProduct 修改商品
// @Summary      修改商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.ProductRequest true "商品"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Failure      404 {object} response.Response "商品或分类不存在"
// @Router       /products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductResponse(p))
}

// DeleteProduct 删除商品
// @Summary      删除商品
// @Tags         商品
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toProductRequest(req dto.ProductRequest) catalog.ProductRequest {
	return catalog.ProductRequest{
		Name:        req.Name,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Color:       req.Color,
		Stock:       req.Stock,
		Featured:    req.Featured,
		ImageURL:    req.ImageURL,
	}
}
