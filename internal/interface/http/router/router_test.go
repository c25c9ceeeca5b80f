package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/easyshop/internal/application/cart"
	"github.com/xiebiao/easyshop/internal/application/catalog"
	"github.com/xiebiao/easyshop/internal/application/order"
	"github.com/xiebiao/easyshop/internal/application/profile"
	appuser "github.com/xiebiao/easyshop/internal/application/user"
	"github.com/xiebiao/easyshop/internal/domain/user"
	"github.com/xiebiao/easyshop/internal/infrastructure/config"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/easyshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/easyshop/internal/interface/http/handler"
	"github.com/xiebiao/easyshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/easyshop/pkg/errors"
	"github.com/xiebiao/easyshop/pkg/jwt"
	"github.com/xiebiao/easyshop/pkg/mq"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

// newTestServer 与wire_gen.go相同的组装方式，存储换成SQLite + miniredis
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Checkout: config.CheckoutConfig{
			Timeout:    5 * time.Second,
			LockTTL:    10 * time.Second,
			LockRetry:  5 * time.Millisecond,
			LockPrefix: "checkout:lock:",
		},
	}
	log := zap.NewNop()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	userRepo := mysql.NewUserRepository(db)
	profileRepo := mysql.NewProfileRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)

	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("router-test-secret", time.Hour, 24*time.Hour)
	userService := user.NewServiceWithCost(userRepo, bcrypt.MinCost)

	register := appuser.NewRegisterUseCase(userService, profileRepo, txManager)
	_, err = register.EnsureAdmin(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	handlers := &Handlers{
		User: handler.NewUserHandler(
			register,
			appuser.NewLoginUseCase(userService, jwtManager, sessions, log),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewRefreshTokenUseCase(userRepo, jwtManager, sessions),
		),
		Profile: handler.NewProfileHandler(profile.NewUseCase(profileRepo)),
		Catalog: handler.NewCatalogHandler(
			catalog.NewCategoryUseCase(categoryRepo, productRepo),
			catalog.NewProductUseCase(productRepo, categoryRepo),
		),
		Cart: handler.NewCartHandler(cart.NewUseCase(cartRepo, productRepo)),
		Order: handler.NewOrderHandler(
			order.NewCheckoutUseCase(userRepo, cartRepo, profileRepo, orderRepo, txManager,
				redis.NewCheckoutLocker(client, cfg), mq.NopPublisher{}, cfg, log),
			order.NewQueryUseCase(orderRepo),
		),
	}

	engine := New(cfg, log, handlers, middleware.NewAuthMiddleware(jwtManager, sessions))
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (s *testServer) signUp(username, role string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": username, "password": "secret123", "confirm_password": "secret123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)

	return s.login(username).AccessToken
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *testServer) login(username string) tokenPair {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/users/login", "", gin.H{
		"username": username, "password": "secret123",
	})
	require.Equal(s.t, http.StatusOK, code, env.Message)

	var pair tokenPair
	require.NoError(s.t, json.Unmarshal(env.Data, &pair))
	return pair
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type idOnly struct {
	ID uint `json:"id"`
}

type orderBody struct {
	OrderID        uint      `json:"order_id"`
	Date           time.Time `json:"date"`
	UserID         uint   `json:"user_id"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	ShippingAmount string `json:"shipping_amount"`
	LineItems      []struct {
		ProductID  uint   `json:"product_id"`
		SalesPrice string `json:"sales_price"`
		Quantity   int    `json:"quantity"`
	} `json:"line_items"`
}

func TestAPI_CheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin").AccessToken
	alice := s.signUp("alice", "")

	// 目录：只有管理员可以写
	code, _ := s.do(http.MethodPost, "/api/v1/categories", "", gin.H{"name": "Shirts"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodPost, "/api/v1/categories", alice, gin.H{"name": "Shirts"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodPost, "/api/v1/categories", admin, gin.H{"name": "Shirts"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	cat := decode[idOnly](t, env)

	code, env = s.do(http.MethodPost, "/api/v1/products", admin, gin.H{"name": "A", "price": "10.00", "category_id": cat.ID, "color": "red"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	a := decode[idOnly](t, env)
	code, env = s.do(http.MethodPost, "/api/v1/products", admin, gin.H{"name": "B", "price": 25, "category_id": cat.ID, "color": "blue"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	b := decode[idOnly](t, env)

	code, env = s.do(http.MethodGet, "/api/v1/products?minPrice=20&color=blue", "", nil)
	require.Equal(t, http.StatusOK, code)
	found := decode[[]idOnly](t, env)
	require.Len(t, found, 1)
	assert.Equal(t, b.ID, found[0].ID)

	// 购物车：A×2，B×1
	for _, id := range []uint{a.ID, a.ID, b.ID} {
		code, env = s.do(http.MethodPost, fmt.Sprintf("/api/v1/cart/products/%d", id), alice, nil)
		require.Equal(t, http.StatusOK, code, env.Message)
	}
	code, env = s.do(http.MethodGet, "/api/v1/cart", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "45.00", decode[struct {
		Total string `json:"total"`
	}](t, env).Total)

	// 注册时已创建空资料，这里补全收货地址
	code, env = s.do(http.MethodPut, "/api/v1/profile", alice, gin.H{
		"address": "1 Main St", "city": "Springfield", "state": "IL", "zip": "62701",
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodPost, "/api/v1/orders", alice, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	placed := decode[orderBody](t, env)
	assert.NotZero(t, placed.OrderID)
	assert.Equal(t, "45.00", placed.ShippingAmount)
	assert.Equal(t, "1 Main St", placed.Address)
	assert.Equal(t, "62701", placed.Zip)
	require.Len(t, placed.LineItems, 2)
	assert.Equal(t, a.ID, placed.LineItems[0].ProductID)
	assert.Equal(t, 2, placed.LineItems[0].Quantity)
	assert.Equal(t, "10.00", placed.LineItems[0].SalesPrice)

	code, env = s.do(http.MethodGet, "/api/v1/cart", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.00", decode[struct {
		Total string `json:"total"`
	}](t, env).Total)

	// 购物车已空
	code, env = s.do(http.MethodPost, "/api/v1/orders", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperrors.ErrCodeInvalidState, env.Code)

	// 订单查询
	code, env = s.do(http.MethodGet, "/api/v1/orders", alice, nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		Total int64 `json:"total"`
	}](t, env)
	assert.Equal(t, int64(1), page.Total)

	code, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", placed.OrderID), alice, nil)
	require.Equal(t, http.StatusOK, code)
	fetched := decode[orderBody](t, env)
	assert.Len(t, fetched.LineItems, 2)
	assert.Zero(t, placed.Date.Nanosecond(), "下单时间精确到秒")
	assert.True(t, fetched.Date.Equal(placed.Date), "POST返回%s，GET返回%s", placed.Date, fetched.Date)

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", placed.OrderID), admin, nil)
	assert.Equal(t, http.StatusNotFound, code, "他人的订单不可见")
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("bob", "")

	code, _ := s.do(http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/v1/users/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)
}

func TestAPI_RefreshTokenIsNotABearerCredential(t *testing.T) {
	s := newTestServer(t)
	s.signUp("carol", "")
	pair := s.login("carol")

	// Refresh Token不能访问受保护接口
	code, env := s.do(http.MethodGet, "/api/v1/profile", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)
	code, env = s.do(http.MethodPost, "/api/v1/orders", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)

	// Access Token不能用来刷新
	code, _ = s.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, code)

	// 刷新得到的是可用的Access Token
	code, env = s.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, code, env.Message)
	refreshed := decode[tokenPair](t, env)
	code, _ = s.do(http.MethodGet, "/api/v1/profile", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)

	// 登出后Refresh Token也失效
	code, _ = s.do(http.MethodPost, "/api/v1/users/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPost, "/api/v1/users/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)
	code, _ = s.do(http.MethodGet, "/api/v1/profile", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_AdminRegistrationRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	body := func(name string) gin.H {
		return gin.H{"username": name, "password": "secret123", "confirm_password": "secret123", "role": user.RoleAdmin}
	}

	code, env := s.do(http.MethodPost, "/api/v1/users/register", "", body("mallory"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperrors.ErrCodeForbidden, env.Code)

	alice := s.signUp("alice", "")
	code, _ = s.do(http.MethodPost, "/api/v1/users/register", alice, body("mallory"))
	assert.Equal(t, http.StatusForbidden, code)

	// 无效Token不会被当作匿名请求
	code, _ = s.do(http.MethodPost, "/api/v1/users/register", "garbage", body("mallory"))
	assert.Equal(t, http.StatusUnauthorized, code)

	admin := s.login("admin").AccessToken
	code, env = s.do(http.MethodPost, "/api/v1/users/register", admin, body("ops"))
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, user.RoleAdmin, decode[struct {
		Role string `json:"role"`
	}](t, env).Role)

	ops := s.login("ops").AccessToken
	code, _ = s.do(http.MethodPost, "/api/v1/categories", ops, gin.H{"name": "Hats"})
	assert.Equal(t, http.StatusCreated, code)
}

func TestAPI_Validation(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "al", "password": "secret123", "confirm_password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperrors.ErrCodeBindError, env.Code)

	code, env = s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "carol", "password": "secret123", "confirm_password": "secret999",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appuser.ErrPasswordMismatch.Code, env.Code)

	code, _ = s.do(http.MethodGet, "/api/v1/products?minPrice=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, apperrors.ErrCodeProductNotFound, env.Code)

	code, _ = s.do(http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodGet, "/api/v1/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)
}

func TestAPI_PingAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
