package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	// Источник данных
	DataSource    string `env:"DATA_SOURCE" envDefault:"csv" validate:"oneof=csv postgres"`
	DataPath      string `env:"DATA_PATH" envDefault:"data/sf-fire-calls.csv" validate:"required_if=DataSource csv"`
	CSVDelimiter  rune   `env:"CSV_DELIMITER" envDefault:","`
	DatabaseURL   string `env:"DATABASE_URL" validate:"required_if=DataSource postgres"`
	DatabaseTable string `env:"DATABASE_TABLE" envDefault:"sf_fire_calls" validate:"required"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	// Вывод результатов
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"table" validate:"oneof=table json yaml"`
	RowLimit     int    `env:"ROW_LIMIT" envDefault:"20" validate:"gte=0"`

	// Параметры запросов
	FilterYear     int     `env:"FILTER_YEAR" envDefault:"2018" validate:"gte=1900,lte=2100"`
	DelayThreshold float64 `env:"DELAY_THRESHOLD" envDefault:"5" validate:"gte=0"`
	ZipCodes       []int   `env:"ZIP_CODES" envDefault:"94102,94103" validate:"min=1,dive,gt=0"`

	// HTTP API
	HTTPPort string   `env:"HTTP_PORT" envDefault:"8080"`
	APIKeys  []string `env:"API_KEYS"`

	// Redis Config (публикация результатов)
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPass      string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	ResultsChannel string `env:"RESULTS_CHANNEL" envDefault:"fire_calls:results"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DataSource:     getEnv("DATA_SOURCE", SourceCSV),
		DataPath:       getEnv("DATA_PATH", "data/sf-fire-calls.csv"),
		CSVDelimiter:   getEnvAsRune("CSV_DELIMITER", ','),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseTable:  getEnv("DATABASE_TABLE", "sf_fire_calls"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		OutputFormat:   getEnv("OUTPUT_FORMAT", "table"),
		RowLimit:       getEnvAsInt("ROW_LIMIT", 20),
		FilterYear:     getEnvAsInt("FILTER_YEAR", 2018),
		DelayThreshold: getEnvAsFloat("DELAY_THRESHOLD", 5),
		ZipCodes:       getEnvAsIntSlice("ZIP_CODES", []int{94102, 94103}),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		ResultsChannel: getEnv("RESULTS_CHANNEL", "fire_calls:results"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность конфигурации. Вызывается повторно после
// применения флагов командной строки.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsRune возвращает первый символ значения; "\t" понимается как табуляция
func getEnvAsRune(key string, defaultValue rune) rune {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if value == `\t` {
		return '\t'
	}
	return []rune(value)[0]
}

// getEnvAsIntSlice разбирает список чисел через запятую
func getEnvAsIntSlice(key string, defaultValue []int) []int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
