package mysql

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/easyshop/internal/domain/cart"
	"github.com/xiebiao/easyshop/internal/domain/category"
	"github.com/xiebiao/easyshop/internal/domain/product"
	"github.com/xiebiao/easyshop/internal/domain/profile"
	"github.com/xiebiao/easyshop/internal/domain/user"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := user.NewUser("alice", "hash", "")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, user.NewUser("alice", "hash2", ""))
	assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, user.RoleUser, found.Role)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProfileRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := repo.FindByUserID(ctx, 1)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	require.NoError(t, repo.Create(ctx, profile.NewEmptyProfile(1)))

	p := &profile.Profile{UserID: 1, FirstName: "Ada", Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"}
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "62701", got.Zip)

	// 空字符串也会覆盖
	p.FirstName = ""
	require.NoError(t, repo.Update(ctx, p))
	got, err = repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.FirstName)

	assert.ErrorIs(t, repo.Update(ctx, &profile.Profile{UserID: 2}), profile.ErrProfileNotFound)
}

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	c := &category.Category{Name: "Shoes", Description: "all shoes"}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)

	assert.ErrorIs(t, repo.Create(ctx, &category.Category{Name: "Shoes"}), category.ErrCategoryDuplicate)

	c.Update("Sneakers", "running")
	require.NoError(t, repo.Update(ctx, c))
	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sneakers", got.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), category.ErrCategoryNotFound)
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestProductRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seed := []*product.Product{
		{Name: "Red Shirt", Price: dec("19.99"), CategoryID: 1, Color: "red", Stock: 5},
		{Name: "Blue Shirt", Price: dec("24.50"), CategoryID: 1, Color: "blue", Stock: 5},
		{Name: "Red Hat", Price: dec("9.00"), CategoryID: 2, Color: "red", Stock: 5},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(ctx, p))
	}

	cat1 := uint(1)
	minPrice := dec("10")
	maxPrice := dec("20")

	tests := []struct {
		name   string
		params product.SearchParams
		want   []string
	}{
		{"不过滤", product.SearchParams{}, []string{"Red Shirt", "Blue Shirt", "Red Hat"}},
		{"按分类", product.SearchParams{CategoryID: &cat1}, []string{"Red Shirt", "Blue Shirt"}},
		{"按颜色", product.SearchParams{Color: "red"}, []string{"Red Shirt", "Red Hat"}},
		{"价格区间", product.SearchParams{MinPrice: &minPrice, MaxPrice: &maxPrice}, []string{"Red Shirt"}},
		{"组合条件", product.SearchParams{CategoryID: &cat1, Color: "blue"}, []string{"Blue Shirt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.params)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	byCat, err := repo.ListByCategoryID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.True(t, dec("9").Equal(byCat[0].Price))
}

func TestProductRepository_UpdateDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "Mug", Price: dec("7.25"), CategoryID: 1, Stock: 3, Featured: true}
	require.NoError(t, repo.Create(ctx, p))

	p.Price = dec("8.00")
	p.Featured = false
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, dec("8").Equal(got.Price))
	assert.False(t, got.Featured, "false值也要写入")

	assert.ErrorIs(t, repo.Update(ctx, &product.Product{ID: 999, Name: "x", Price: decimal.NewFromInt(1)}), product.ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), product.ErrProductNotFound)
}

func TestCartRepository(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	repo := NewCartRepository(db)
	ctx := context.Background()

	a := &product.Product{Name: "A", Price: dec("10.00"), CategoryID: 1}
	b := &product.Product{Name: "B", Price: dec("25.00"), CategoryID: 1}
	require.NoError(t, products.Create(ctx, a))
	require.NoError(t, products.Create(ctx, b))

	// 没有行时返回空购物车而不是nil
	c, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.IsEmpty())

	require.NoError(t, repo.AddProduct(ctx, 1, a.ID))
	require.NoError(t, repo.AddProduct(ctx, 1, a.ID))
	require.NoError(t, repo.AddProduct(ctx, 1, b.ID))

	c, err = repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	item, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity, "重复加入数量+1")
	assert.True(t, item.DiscountPercent.IsZero())
	assert.True(t, dec("45").Equal(c.Total()))

	require.NoError(t, repo.UpdateQuantity(ctx, 1, b.ID, 4))
	// 数量不变也不应报不存在
	require.NoError(t, repo.UpdateQuantity(ctx, 1, b.ID, 4))
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, 1, 999, 1), cart.ErrItemNotInCart)
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, 1, b.ID, 0), cart.ErrInvalidQuantity)

	c, err = repo.LockByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(c.Total()))

	// 其他用户的购物车互不影响
	require.NoError(t, repo.AddProduct(ctx, 2, a.ID))

	require.NoError(t, repo.Clear(ctx, 1))
	c, err = repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	other, err := repo.GetByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Len())
}

func TestCartRepository_SkipsDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	repo := NewCartRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "Gone", Price: dec("1.00"), CategoryID: 1}
	require.NoError(t, products.Create(ctx, p))
	require.NoError(t, repo.AddProduct(ctx, 1, p.ID))
	require.NoError(t, products.Delete(ctx, p.ID))

	c, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
