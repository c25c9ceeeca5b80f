package dto

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/easyshop/internal/domain/category"
	"github.com/xiebiao/easyshop/internal/domain/product"
)

// CategoryRequest 创建/修改分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCategoryResponse 领域实体 → 响应
func NewCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// NewCategoryList 分类列表
func NewCategoryList(categories []*category.Category) []*CategoryResponse {
	list := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		list = append(list, NewCategoryResponse(c))
	}
	return list
}

// ProductRequest 创建/修改商品
// price接受字符串或数字（"19.99" / 19.99），按十进制解析
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	Description string          `json:"description"`
	Color       string          `json:"color" binding:"max=50"`
	Stock       int             `json:"stock" binding:"min=0"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
}

// ProductQuery 商品搜索参数，空字符串表示不过滤
type ProductQuery struct {
	CategoryID string `form:"cat"`
	MinPrice   string `form:"minPrice"`
	MaxPrice   string `form:"maxPrice"`
	Color      string `form:"color"`
}

// ToSearchParams 解析查询参数，格式错误返回error
func (q ProductQuery) ToSearchParams() (product.SearchParams, error) {
	var params product.SearchParams
	if q.CategoryID != "" {
		id, err := strconv.ParseUint(q.CategoryID, 10, 64)
		if err != nil {
			return params, fmt.Errorf("cat: %w", err)
		}
		cat := uint(id)
		params.CategoryID = &cat
	}
	if q.MinPrice != "" {
		d, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			return params, fmt.Errorf("minPrice: %w", err)
		}
		params.MinPrice = &d
	}
	if q.MaxPrice != "" {
		d, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			return params, fmt.Errorf("maxPrice: %w", err)
		}
		params.MaxPrice = &d
	}
	params.Color = q.Color
	return params, nil
}

// ProductResponse 商品
type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price" example:"19.99"`
	CategoryID  uint   `json:"category_id"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Stock       int    `json:"stock"`
	Featured    bool   `json:"featured"`
	ImageURL    string `json:"image_url"`
}

// NewProductResponse 领域实体 → 响应，金额保留两位小数
func NewProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       Money(p.Price),
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Color:       p.Color,
		Stock:       p.Stock,
		Featured:    p.Featured,
		ImageURL:    p.ImageURL,
	}
}

// NewProductList 商品列表
func NewProductList(products []*product.Product) []*ProductResponse {
	list := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		list = append(list, NewProductResponse(p))
	}
	return list
}

// Money 金额统一输出为两位小数的字符串
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
