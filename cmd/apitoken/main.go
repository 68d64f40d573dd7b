// apitoken 为写操作签发Bearer Token
//
// 使用示例：
//
//	go run ./cmd/apitoken --subject ops
//	go run ./cmd/apitoken -c config/config.prod.yaml --subject importer --expire 1h
//
// 输出JSON：{"access_token":"...","expires_at":"..."}
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/jwt"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "apitoken:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("apitoken", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	subject := fs.String("subject", "", "Token主体（调用方标识，必填）")
	scopes := fs.StringSlice("scope", []string{jwt.ScopeWrite}, "授权范围，可重复")
	expire := fs.Duration("expire", 0, "有效期（默认取jwt.access_token_expire）")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return fmt.Errorf("--subject不能为空")
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	ttl := cfg.JWT.AccessTokenExpire
	if *expire > 0 {
		ttl = *expire
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, ttl).GenerateToken(*subject, *scopes...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}
