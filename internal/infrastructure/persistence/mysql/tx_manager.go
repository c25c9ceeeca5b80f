package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的key（私有类型，避免与其他包冲突）
type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB，Repository用dbFromContext取出
// 3. 嵌套调用时GORM自动使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn返回error时ROLLBACK，返回nil时COMMIT
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    c, err := cartRepo.LockByUserID(ctx, userID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := orderRepo.CreateOrder(ctx, o); err != nil {
//	        return err // 回滚
//	    }
//	    return cartRepo.Clear(ctx, userID)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext 优先使用context中的事务DB
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
