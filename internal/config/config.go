package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Бэкенды хранилища
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Geo     GeoConfig
	Log     LogConfig
}

type AppConfig struct {
	BaseURL string // origin для построения короткой ссылки
}

type StorageConfig struct {
	Backend string
	Dir     string // каталог файлового бэкенда
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host string
	Port string
}

type GeoConfig struct {
	APIURL  string
	Timeout time.Duration
}

type LogConfig struct {
	MaxEntries int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env опционален: без него работаем на переменных окружения и дефолтах
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	cfg.App.BaseURL = viper.GetString("APP_BASE_URL")
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:8080"
	}

	cfg.Storage.Backend = viper.GetString("STORAGE_BACKEND")
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	cfg.Storage.Dir = viper.GetString("STORAGE_DIR")
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = ".data"
	}

	cfg.DB.Host = viper.GetString("DB_HOST")
	cfg.DB.Port = viper.GetString("DB_PORT")
	cfg.DB.User = viper.GetString("DB_USER")
	cfg.DB.Password = viper.GetString("DB_PASSWORD")
	cfg.DB.Name = viper.GetString("DB_NAME")
	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")

	cfg.Geo.APIURL = viper.GetString("GEO_API_URL")
	if cfg.Geo.APIURL == "" {
		cfg.Geo.APIURL = "https://ipapi.co/json/"
	}
	timeoutSeconds := viper.GetInt("GEO_TIMEOUT_SECONDS")
	if timeoutSeconds == 0 {
		timeoutSeconds = 3
	}
	cfg.Geo.Timeout = time.Duration(timeoutSeconds) * time.Second

	cfg.Log.MaxEntries = viper.GetInt("LOG_MAX_ENTRIES")
	if cfg.Log.MaxEntries == 0 {
		cfg.Log.MaxEntries = 1000
	}

	return &cfg, nil
}
