package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: test
database:
  host: db.internal
  user: shop
  password: secret
  dbname: easyshop
  loc: America/Chicago
checkout:
  timeout: 5s
  lock_ttl: 15s
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Checkout.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Checkout.LockTTL)

	// 未配置的字段使用默认值
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 50*time.Millisecond, cfg.Checkout.LockRetry)
	assert.Equal(t, "easyshop.events", cfg.MQ.Exchange)
	assert.Equal(t, uint32(5), cfg.MQ.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.MQ.BreakerTimeout)

	assert.Equal(t,
		"shop:secret@tcp(db.internal:3306)/easyshop?charset=utf8mb4&parseTime=true&loc=America%2FChicago",
		cfg.Database.DSN())
}

func TestLoadFile_AdminFromEnv(t *testing.T) {
	path := writeConfig(t, "admin:\n  username: root\n")
	t.Setenv("EASYSHOP_ADMIN_PASSWORD", "from-env-123")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, "from-env-123", cfg.Admin.Password)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  password: from-file
`)
	t.Setenv("EASYSHOP_DATABASE_PASSWORD", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestValidate(t *testing.T) {
	t.Run("生产环境使用默认密钥", func(t *testing.T) {
		path := writeConfig(t, "server:\n  mode: release\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("锁TTL小于结算超时", func(t *testing.T) {
		path := writeConfig(t, "checkout:\n  timeout: 20s\n  lock_ttl: 5s\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("启用MQ但未配置地址", func(t *testing.T) {
		path := writeConfig(t, "mq:\n  enabled: true\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("管理员缺少密码", func(t *testing.T) {
		path := writeConfig(t, "admin:\n  username: root\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("无效端口", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 70000\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
