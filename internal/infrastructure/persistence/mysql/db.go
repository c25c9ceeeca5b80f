package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/easyshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. debug模式打印SQL
// 3. database.auto_migrate=true时自动迁移表结构（开发环境）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
		log.Info("数据库表结构已迁移")
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 只会建表、加字段，不会删除或修改已有字段；生产环境应使用版本化迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ProfileModel{},
		&CategoryModel{},
		&ProductModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderLineItemModel{},
	)
}

// =========================================
// GORM模型（infrastructure层），与domain实体分离，由Repository负责转换
// =========================================

// UserModel 用户表
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role      string    `gorm:"size:20;not null;default:ROLE_USER;comment:角色"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// ProfileModel 收货资料表，与users一对一（user_id即主键）
type ProfileModel struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false;comment:用户ID"`
	FirstName string `gorm:"size:50"`
	LastName  string `gorm:"size:50"`
	Phone     string `gorm:"size:30"`
	Email     string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	City      string `gorm:"size:100"`
	State     string `gorm:"size:50"`
	Zip       string `gorm:"size:20"`
	UpdatedAt time.Time
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// CategoryModel 分类表
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	Description string `gorm:"size:500;comment:分类描述"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel 商品表
// 价格使用DECIMAL(10,2)，Go侧映射为decimal.Decimal
type ProductModel struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:200;not null;comment:商品名称"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;index:idx_price;comment:价格"`
	CategoryID  uint            `gorm:"index;not null;comment:分类ID"`
	Description string          `gorm:"type:text;comment:商品描述"`
	Color       string          `gorm:"size:30;index;comment:颜色"`
	Stock       int             `gorm:"default:0;comment:库存数量"`
	Featured    bool            `gorm:"default:false;comment:是否推荐"`
	ImageURL    string          `gorm:"size:500;comment:图片URL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// CartItemModel 购物车行，(user_id, product_id)联合主键
// 表中没有折扣列，读取时折扣恒为0
type CartItemModel struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int  `gorm:"not null;default:1"`
}

func (CartItemModel) TableName() string {
	return "shopping_cart"
}

// OrderModel 订单表
// 地址字段是下单时的快照；shipping_amount = 结算时购物车总额
type OrderModel struct {
	ID             uint                 `gorm:"column:order_id;primaryKey"`
	UserID         uint                 `gorm:"index;not null;comment:买家用户ID"`
	Date           time.Time            `gorm:"column:date;index;not null;comment:下单时间"`
	Address        string               `gorm:"size:255"`
	City           string               `gorm:"size:100"`
	State          string               `gorm:"size:50"`
	Zip            string               `gorm:"size:20"`
	ShippingAmount decimal.Decimal      `gorm:"type:decimal(10,2);not null;comment:订单金额"`
	LineItems      []OrderLineItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineItemModel 订单明细表
// sales_price是下单时单价快照
type OrderLineItemModel struct {
	ID         uint            `gorm:"column:order_line_id;primaryKey"`
	OrderID    uint            `gorm:"column:order_id;index;not null"`
	ProductID  uint            `gorm:"index;not null"`
	SalesPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity   int             `gorm:"not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
}

func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}
