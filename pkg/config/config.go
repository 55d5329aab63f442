package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados para los snapshots de colecciones.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	DB       DBConfig
	Realtime RealtimeConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	StaticDir   string // assets públicos (vista en tiempo real)
	SwaggerFile string // vacío = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig define dónde viven las colecciones de productos y carritos.
type StorageConfig struct {
	Driver       string // file | postgres
	ProductsFile string
	CartsFile    string
	UploadDir    string // destino de las miniaturas subidas por multipart
}

// DBConfig configuración de PostgreSQL (solo con STORAGE_DRIVER=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RealtimeConfig parámetros del canal WebSocket.
type RealtimeConfig struct {
	SendBuffer int // mensajes en cola por cliente antes de desconectarlo
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, PRODUCTS_FILE, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "vitrina"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			StaticDir:   getString(v, "STATIC_DIR", "./public"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getString(v, "STORAGE_DRIVER", StorageFile)),
			ProductsFile: getString(v, "PRODUCTS_FILE", "./data/products.json"),
			CartsFile:    getString(v, "CARTS_FILE", "./data/carts.json"),
			UploadDir:    getString(v, "UPLOAD_DIR", "./public/img"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "vitrina"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Realtime: RealtimeConfig{
			SendBuffer: getInt(v, "WS_SEND_BUFFER", 16),
		},
	}

	switch cfg.Storage.Driver {
	case StorageFile, StoragePostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER inválido: %q", cfg.Storage.Driver)
	}
	if cfg.Realtime.SendBuffer <= 0 {
		cfg.Realtime.SendBuffer = 16
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
