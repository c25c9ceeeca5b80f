package order

import (
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在（或不属于当前用户）
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrProfileRequired 没有收货资料不能下单
	ErrProfileRequired = apperrors.New(apperrors.ErrCodeInvalidState, "请先完善收货资料")

	// ErrOrderIDNotGenerated 插入订单后没有拿到自增ID
	ErrOrderIDNotGenerated = apperrors.New(apperrors.ErrCodeInternal, "创建订单失败")

	// ErrLineItemIDNotGenerated 插入明细后没有拿到自增ID
	ErrLineItemIDNotGenerated = apperrors.New(apperrors.ErrCodeInternal, "创建订单明细失败")

	// ErrCheckoutTimeout 结算超时，事务已回滚
	ErrCheckoutTimeout = apperrors.New(apperrors.ErrCodeTimeout, "结算超时，请稍后重试")
)
