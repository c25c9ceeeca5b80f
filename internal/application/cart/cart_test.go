package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/product"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/mysql"
)

func setup(t *testing.T) (*UseCase, product.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cart.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))

	products := mysql.NewProductRepository(db)
	return NewUseCase(mysql.NewCartRepository(db), products), products
}

func TestUseCase_CartLifecycle(t *testing.T) {
	uc, products := setup(t)
	ctx := context.Background()

	a := &product.Product{Name: "A", Price: decimal.RequireFromString("10.00"), CategoryID: 1}
	b := &product.Product{Name: "B", Price: decimal.RequireFromString("25.00"), CategoryID: 1}
	require.NoError(t, products.Create(ctx, a))
	require.NoError(t, products.Create(ctx, b))

	c, err := uc.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = uc.AddProduct(ctx, 7, a.ID)
	require.NoError(t, err)
	_, err = uc.AddProduct(ctx, 7, a.ID)
	require.NoError(t, err)
	c, err = uc.AddProduct(ctx, 7, b.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	item, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, decimal.RequireFromString("45.00").Equal(c.Total()))

	c, err = uc.UpdateQuantity(ctx, 7, b.ID, 3)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("95.00").Equal(c.Total()))

	require.NoError(t, uc.Clear(ctx, 7))
	c, err = uc.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestUseCase_Rejections(t *testing.T) {
	uc, products := setup(t)
	ctx := context.Background()

	_, err := uc.AddProduct(ctx, 7, 999)
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	p := &product.Product{Name: "A", Price: decimal.RequireFromString("1.00"), CategoryID: 1}
	require.NoError(t, products.Create(ctx, p))

	_, err = uc.UpdateQuantity(ctx, 7, p.ID, 2)
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)

	_, err = uc.AddProduct(ctx, 7, p.ID)
	require.NoError(t, err)
	_, err = uc.UpdateQuantity(ctx, 7, p.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}
