package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Timeouts  TimeoutConfig
	Mail      MailConfig
	Scheduler SchedulerConfig
	Export    ExportConfig
	Checkout  CheckoutConfig
	Admin     AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión compartida por la caché y la cola de exportaciones.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig TTL de la caché del catálogo. 0 la desactiva.
type CacheConfig struct {
	CatalogTTL time.Duration
}

// TimeoutConfig límites de espera hacia servicios externos.
type TimeoutConfig struct {
	Request time.Duration // toda la petición HTTP (incluye la BD)
	Store   time.Duration // cada intento de lectura idempotente
	Cache   time.Duration
	Mail    time.Duration
	Job     time.Duration // ejecución completa de un job programado
}

// MailConfig servidor SMTP de salida.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SchedulerConfig expresiones cron de los jobs programados.
type SchedulerConfig struct {
	Enabled             bool
	Timezone            string
	ReminderCron        string
	ReportCron          string
	InactivityThreshold time.Duration
}

// ExportConfig exportaciones CSV asíncronas.
type ExportConfig struct {
	// Dir donde el worker escribe los CSV y desde donde la API los sirve. Con cmd/worker
	// separado ambos procesos deben montar el mismo volumen en esta ruta.
	Dir            string
	Queue          string
	Concurrency    int
	EmbeddedWorker bool // ejecutar el worker dentro del proceso de la API
}

// CheckoutConfig política de stock en la compra.
type CheckoutConfig struct {
	AllowNegativeStock bool
}

// AdminConfig credenciales del administrador aprovisionado fuera de banda.
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "grocery-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "grocery"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 25)),
			MinConns:    int32(getInt(v, "DB_MIN_CONNS", 2)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "grocery-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Cache: CacheConfig{
			CatalogTTL: time.Duration(getInt(v, "CACHE_CATALOG_TTL_SECONDS", 10)) * time.Second,
		},
		Timeouts: TimeoutConfig{
			Request: getDuration(v, "TIMEOUT_REQUEST", 15*time.Second),
			Store:   getDuration(v, "TIMEOUT_STORE", 3*time.Second),
			Cache:   getDuration(v, "TIMEOUT_CACHE", 500*time.Millisecond),
			Mail:    getDuration(v, "TIMEOUT_MAIL", 20*time.Second),
			Job:     getDuration(v, "TIMEOUT_JOB", 10*time.Minute),
		},
		Mail: MailConfig{
			Host:     getString(v, "SMTP_HOST", "localhost"),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@grocery.local"),
		},
		Scheduler: SchedulerConfig{
			Enabled:             getBool(v, "SCHEDULER_ENABLED", true),
			Timezone:            getString(v, "SCHEDULER_TIMEZONE", "UTC"),
			ReminderCron:        getString(v, "SCHEDULER_REMINDER_CRON", "0 18 * * *"),
			ReportCron:          getString(v, "SCHEDULER_REPORT_CRON", "0 6 1 * *"),
			InactivityThreshold: time.Duration(getInt(v, "SCHEDULER_INACTIVITY_HOURS", 24)) * time.Hour,
		},
		Export: ExportConfig{
			Dir:            getString(v, "EXPORT_DIR", "./exports"),
			Queue:          getString(v, "EXPORT_QUEUE", "exports"),
			Concurrency:    getInt(v, "EXPORT_CONCURRENCY", 2),
			EmbeddedWorker: getBool(v, "EXPORT_EMBEDDED_WORKER", false),
		},
		Checkout: CheckoutConfig{
			AllowNegativeStock: getBool(v, "CHECKOUT_ALLOW_NEGATIVE_STOCK", false),
		},
		Admin: AdminConfig{
			Username: getString(v, "ADMIN_USERNAME", "admin"),
			Password: getString(v, "ADMIN_PASSWORD", ""),
			Email:    getString(v, "ADMIN_EMAIL", ""),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
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
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "5s", "250ms" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return def
}
