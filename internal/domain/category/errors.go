package category

import (
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrCategoryDuplicate 分类名称已存在
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")
)
