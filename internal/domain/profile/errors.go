package profile

import (
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

var (
	// ErrProfileNotFound 收货资料不存在
	ErrProfileNotFound = apperrors.New(apperrors.ErrCodeProfileNotFound, "收货资料不存在")
)
