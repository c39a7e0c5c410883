package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // HTTPポート（webhook/health/ops）

	Telegram TelegramConfig
	DB       DBConfig
	Payment  PaymentConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Log      LogConfig

	JWTSecret      string        // /ops 用
	ImageDir       string        // 商品画像のルート（public）
	BcryptCost     int           // パスワードハッシュのコスト
	SessionIdleTTL time.Duration // 触られていないセッションを捨てるまで
}

type TelegramConfig struct {
	Token         string
	Mode          string // polling / webhook
	WebhookURL    string // 外部から見えるURL（末尾にパスを足す）
	WebhookSecret string // X-Telegram-Bot-Api-Secret-Token
	Debug         bool
}

type DBConfig struct {
	Driver          string // postgres / mysql
	URL             string // あれば最優先
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type PaymentConfig struct {
	URL     string
	Timeout time.Duration
}

// Addrが空ならメモリで重複排除する
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	DedupeTTL time.Duration
}

// URIが空なら決済ジャーナルは無効
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type LogConfig struct {
	Level string
	Dev   bool
	File  string // 空ならstdoutのみ
}

// Loadは .env → 環境変数（→ CONFIG_FILE）の順で読む
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("BOT_MODE", ModePolling)
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("PAYMENT_TIMEOUT", 10*time.Second)
	v.SetDefault("IMAGE_DIR", "public")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SESSION_IDLE_TTL", 24*time.Hour)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("UPDATE_DEDUPE_TTL", 10*time.Minute)
	v.SetDefault("MONGO_DATABASE", "storebot")
	v.SetDefault("MONGO_COLLECTION", "checkout_journal")
	v.SetDefault("LOG_LEVEL", "info")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port: v.GetString("PORT"),

		Telegram: TelegramConfig{
			Token:         v.GetString("TELEGRAM_TOKEN"),
			Mode:          strings.ToLower(v.GetString("BOT_MODE")),
			WebhookURL:    strings.TrimRight(v.GetString("WEBHOOK_URL"), "/"),
			WebhookSecret: v.GetString("WEBHOOK_SECRET"),
			Debug:         v.GetBool("TELEGRAM_DEBUG"),
		},

		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},

		Payment: PaymentConfig{
			URL:     v.GetString("PAYMENT_URL"),
			Timeout: v.GetDuration("PAYMENT_TIMEOUT"),
		},

		Redis: RedisConfig{
			Addr:      v.GetString("REDIS_ADDR"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			DedupeTTL: v.GetDuration("UPDATE_DEDUPE_TTL"),
		},

		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Database:   v.GetString("MONGO_DATABASE"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},

		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dev:   v.GetString("LOG_DEV") == "1",
			File:  v.GetString("LOG_FILE"),
		},

		JWTSecret:      v.GetString("JWT_SECRET"),
		ImageDir:       v.GetString("IMAGE_DIR"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		SessionIdleTTL: v.GetDuration("SESSION_IDLE_TTL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	switch c.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Telegram.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("BOT_MODE must be %s or %s", ModePolling, ModeWebhook)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.DB.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverMySQL)
	}
	if c.DB.URL == "" {
		if c.DB.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.DB.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}
	if c.Payment.URL == "" {
		return fmt.Errorf("PAYMENT_URL is required")
	}
	if c.Payment.Timeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be positive")
	}
	return nil
}

// MySQL / Postgres の接続文字列
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
		)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}
