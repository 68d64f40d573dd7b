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
  driver: sqlite
  path: ":memory:"
rate_limit:
  enabled: true
  backend: redis
  requests: 10
  window: 1s
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, time.Second, cfg.RateLimit.Window)

	// 未配置的键取默认值
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "bookcatalog", cfg.Tracing.ServiceName)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  password: from-file
`)
	t.Setenv("CATALOG_DATABASE_PASSWORD", "from-env")
	t.Setenv("CATALOG_SERVER_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口越界", "server:\n  port: 70000\n"},
		{"未知驱动", "database:\n  driver: oracle\n"},
		{"release模式默认密钥", "server:\n  mode: release\n"},
		{"鉴权缺少密钥", "jwt:\n  auth_enabled: true\n  secret: \"\"\n"},
		{"未知限流后端", "rate_limit:\n  enabled: true\n  backend: etcd\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysql := DatabaseConfig{
		Driver: "mysql", User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "catalog", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/catalog?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", mysql.DSN())

	pg := DatabaseConfig{
		Driver: "postgres", User: "u", Password: "p", Host: "pg", Port: 5432,
		DBName: "catalog", SSLMode: "disable",
	}
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=catalog sslmode=disable", pg.DSN())
}
