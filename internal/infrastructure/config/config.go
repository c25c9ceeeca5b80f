package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	MQ       MQConfig       `mapstructure:"mq"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（America/Chicago → America%2FChicago）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

// AdminConfig 启动时创建的初始管理员，Username为空则不创建
// 密码建议通过环境变量EASYSHOP_ADMIN_PASSWORD提供
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// CheckoutConfig 结算配置
type CheckoutConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`     // 单次结算总耗时上限（含等锁）
	LockTTL    time.Duration `mapstructure:"lock_ttl"`    // 用户结算锁的过期时间
	LockRetry  time.Duration `mapstructure:"lock_retry"`  // 抢锁失败后的重试间隔
	LockPrefix string        `mapstructure:"lock_prefix"` // 锁Key前缀
}

// MQConfig RabbitMQ配置（订单事件）
type MQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange_type"`
	Queue        string `mapstructure:"queue"` // cmd/notifier消费的队列

	// 发布熔断：连续失败BreakerFailures次后，BreakerTimeout内直接放弃发布
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// TracingConfig OpenTelemetry配置
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP gRPC地址，如 localhost:4317
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Load 加载配置文件
// 支持：
// 1. 默认加载 ./config/config.yaml 或 ./config.yaml
// 2. 通过环境变量EASYSHOP_ENV指定环境（如config.prod.yaml）
// 3. 环境变量覆盖（如EASYSHOP_DATABASE_PASSWORD）
func Load() (*Config, error) {
	v := newViper()

	name := "config"
	if env := os.Getenv("EASYSHOP_ENV"); env != "" {
		name = "config." + env
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时使用默认值+环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	return decode(v)
}

// LoadFile 从指定路径加载配置
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// 环境变量绑定（EASYSHOP_DATABASE_PASSWORD → database.password）
	v.SetEnvPrefix("EASYSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.dbname", "easyshop")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	// 空默认值让AutomaticEnv能识别EASYSHOP_ADMIN_*
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("checkout.timeout", 10*time.Second)
	v.SetDefault("checkout.lock_ttl", 30*time.Second)
	v.SetDefault("checkout.lock_retry", 50*time.Millisecond)
	v.SetDefault("checkout.lock_prefix", "checkout:lock:")

	v.SetDefault("mq.exchange", "easyshop.events")
	v.SetDefault("mq.exchange_type", "topic")
	v.SetDefault("mq.queue", "easyshop.order.notification")
	v.SetDefault("mq.breaker_failures", 5)
	v.SetDefault("mq.breaker_timeout", 30*time.Second)

	v.SetDefault("tracing.service_name", "easyshop-api")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == defaultJWTSecret && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.Checkout.Timeout <= 0 {
		return fmt.Errorf("无效的结算超时时间: %s", cfg.Checkout.Timeout)
	}

	// 锁必须比一次结算活得久，否则结算过程中锁可能过期
	if cfg.Checkout.LockTTL < cfg.Checkout.Timeout {
		return fmt.Errorf("结算锁TTL(%s)不能小于结算超时(%s)", cfg.Checkout.LockTTL, cfg.Checkout.Timeout)
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password == "" {
		return fmt.Errorf("配置了admin.username时必须配置admin.password")
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用MQ时必须配置mq.url")
	}

	return nil
}
