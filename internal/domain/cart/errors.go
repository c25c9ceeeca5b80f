package cart

import (
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrCartEmpty 购物车为空（不能结算）
	ErrCartEmpty = apperrors.New(apperrors.ErrCodeInvalidState, "购物车为空")

	// ErrItemNotInCart 购物车中没有该商品
	ErrItemNotInCart = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车中没有该商品")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidDiscount 折扣不合法
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣必须在0到1之间")
)
