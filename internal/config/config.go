// Package config はアプリケーション設定を読み込みます。
// 優先順位: デフォルト値 < TOML ファイル < .env < 環境変数
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	BackendSQL         = "sql"
	BackendGoogleTasks = "googletasks"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"

	// DefaultFile は --config 未指定時に探す設定ファイルです。
	DefaultFile = "todo.toml"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Database    DatabaseConfig    `toml:"database"`
	GoogleTasks GoogleTasksConfig `toml:"google_tasks"`
	Auth        AuthConfig        `toml:"auth"`
	Log         LogConfig         `toml:"log"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	AllowOrigins []string `toml:"allow_origins"`
}

type StoreConfig struct {
	// Backend は "sql" または "googletasks" です。
	Backend string `toml:"backend"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"`
	User   string `toml:"user"`
	Pass   string `toml:"pass"`
	Host   string `toml:"host"`
	Port   string `toml:"port"`
	Name   string `toml:"name"`
	// Path は sqlite3 ドライバのファイルパスです。
	Path string `toml:"path"`
}

type GoogleTasksConfig struct {
	CredentialsPath string `toml:"credentials"`
	TokenPath       string `toml:"token"`
	ListID          string `toml:"list"`
}

type AuthConfig struct {
	// JWTSecret が空の場合 /api/todos は公開されません。
	JWTSecret string `toml:"jwt_secret"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default はデフォルト設定を返します。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Store: StoreConfig{Backend: BackendSQL},
		Database: DatabaseConfig{
			Driver: DriverMySQL,
			Host:   "127.0.0.1",
			Port:   "3306",
			Path:   "todo.db",
		},
		GoogleTasks: GoogleTasksConfig{ListID: "@default"},
		Log:         LogConfig{Level: "info"},
	}
}

// Load は設定を読み込みます。path が空なら DefaultFile が存在する場合のみ読み込みます。
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", file, err)
		}
	}

	// .env が無いのは正常
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "SERVER_ADDR")
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = splitList(v)
	}
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Pass, "DB_PASS")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.GoogleTasks.CredentialsPath, "GOOGLE_TASKS_CREDENTIALS")
	setString(&c.GoogleTasks.TokenPath, "GOOGLE_TASKS_TOKEN")
	setString(&c.GoogleTasks.ListID, "GOOGLE_TASKS_LIST")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
}

// Validate は設定の整合性を確認します。
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQL:
		switch c.Database.Driver {
		case DriverMySQL:
			if c.Database.Name == "" {
				return errors.New("database name is required for mysql (DB_NAME)")
			}
		case DriverSQLite:
			if c.Database.Path == "" {
				return errors.New("database path is required for sqlite3 (DB_PATH)")
			}
		default:
			return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
		}
	case BackendGoogleTasks:
		if c.GoogleTasks.CredentialsPath == "" || c.GoogleTasks.TokenPath == "" {
			return errors.New("google tasks backend requires credentials and token paths")
		}
		if c.GoogleTasks.ListID == "" {
			return errors.New("google tasks list id is required")
		}
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New("server address is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
