package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DemoEndpoint 未配置远端地址时的占位符
const DemoEndpoint = "YOUR_GOOGLE_APPS_SCRIPT_URL_HERE"

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	// 远端 Apps Script 接口
	AppsScriptURL  string
	RequestTimeout time.Duration

	// 本地存储：memory / sqlite / mysql / redis
	StoreDriver   string
	SQLitePath    string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// RabbitMQ 为空时不发布订单事件
	RabbitMQURL     string
	OrderExchange   string
	OrderQueue      string
	DeadLetterQueue string
	MaxPriority     int

	CatalogFile   string
	MultiItem     bool
	TimeZone      string
	PhotoMaxBytes int64
	PhotoMaxWidth int
	PhotoQuality  int
}

func LoadConfig() *Config {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AppsScriptURL:  getEnv("APPS_SCRIPT_URL", DemoEndpoint),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),

		StoreDriver:   getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "order-entry.db"),
		DBUser:        getEnv("DB_USER", "root"),
		DBPassword:    getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "order_entry"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvFromFile("REDIS_PASSWORD_FILE", "REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "order-entry:"),

		RabbitMQURL:     getEnvFromFile("RABBITMQ_URL_FILE", "RABBITMQ_URL", ""),
		OrderExchange:   getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue: getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		MaxPriority:     10, // 优先级队列最大优先级

		CatalogFile:   getEnv("CATALOG_FILE", ""),
		MultiItem:     getEnvBool("MULTI_ITEM", true),
		TimeZone:      getEnv("TIME_ZONE", "Local"),
		PhotoMaxBytes: int64(getEnvInt("PHOTO_MAX_BYTES", 10*1024*1024)),
		PhotoMaxWidth: getEnvInt("PHOTO_MAX_WIDTH", 800),
		PhotoQuality:  getEnvInt("PHOTO_QUALITY", 70),
	}
}

// Location 解析配置的时区，失败时使用本地时区
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("Warning: unknown time zone %q, using local: %v", c.TimeZone, err)
		return time.Local
	}
	return loc
}

// DemoMode 远端地址未配置
func (c *Config) DemoMode() bool {
	return IsDemoEndpoint(c.AppsScriptURL)
}

// IsDemoEndpoint 判断地址是否为空或占位符
func IsDemoEndpoint(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	return endpoint == "" || endpoint == DemoEndpoint
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
