package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// WriteTimeout del http.Server; la búsqueda en el directorio tiene que cerrar antes.
	WriteTimeout time.Duration

	// DatabaseDSN vacío => store in-memory (modo dev).
	DatabaseDSN string

	Session   SessionConfig
	Redis     RedisConfig
	Directory DirectoryConfig
	Admin     AdminConfig
	Log       LogConfig
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

type DirectoryConfig struct {
	BaseURL     string
	Radius      int
	MaxPages    int
	PageTimeout time.Duration

	// SearchTimeout acota el scrape completo (todas las páginas).
	SearchTimeout time.Duration
	CacheTTL      time.Duration
}

// AdminConfig: si ambos vienen, se asegura que exista ese admin al arrancar.
type AdminConfig struct {
	Username string
	Password string
}

func (c AdminConfig) Enabled() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

func Default() Config {
	return Config{
		Port:         "8080",
		WriteTimeout: 2 * time.Minute,
		Session: SessionConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Directory: DirectoryConfig{
			BaseURL:       "https://www.vetlocator.com/",
			Radius:        10,
			MaxPages:      200,
			PageTimeout:   10 * time.Second,
			SearchTimeout: 90 * time.Second,
			CacheTTL:      15 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			App:    "petvet",
		},
	}
}

// Load lee .env (si existe) y luego el entorno. El entorno real gana sobre .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup construye la config desde una función tipo os.LookupEnv (inyectable en tests).
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	cfg.Port = p.str("PORT", cfg.Port)
	cfg.WriteTimeout = p.duration("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.DatabaseDSN = p.str("DB_DSN", cfg.DatabaseDSN)

	cfg.Session.Secret = p.str("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.TTL = p.duration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.CookieSecure = p.boolean("COOKIE_SECURE", cfg.Session.CookieSecure)

	cfg.Redis.Addr = p.str("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = p.str("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = p.integer("REDIS_DB", cfg.Redis.DB)

	cfg.Directory.BaseURL = p.str("DIRECTORY_BASE_URL", cfg.Directory.BaseURL)
	cfg.Directory.Radius = p.integer("DIRECTORY_RADIUS", cfg.Directory.Radius)
	cfg.Directory.MaxPages = p.integer("DIRECTORY_MAX_PAGES", cfg.Directory.MaxPages)
	cfg.Directory.PageTimeout = p.duration("DIRECTORY_PAGE_TIMEOUT", cfg.Directory.PageTimeout)
	cfg.Directory.SearchTimeout = p.duration("DIRECTORY_SEARCH_TIMEOUT", cfg.Directory.SearchTimeout)
	cfg.Directory.CacheTTL = p.duration("DIRECTORY_CACHE_TTL", cfg.Directory.CacheTTL)

	cfg.Admin.Username = p.str("ADMIN_USERNAME", cfg.Admin.Username)
	cfg.Admin.Password = p.str("ADMIN_PASSWORD", cfg.Admin.Password)

	cfg.Log.Level = p.str("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = p.str("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.App = p.str("APP_NAME", cfg.Log.App)

	if len(p.errs) > 0 {
		return Config{}, errors.Join(p.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Directory.MaxPages <= 0 {
		return errors.New("DIRECTORY_MAX_PAGES must be > 0")
	}
	if c.Directory.PageTimeout <= 0 {
		return errors.New("DIRECTORY_PAGE_TIMEOUT must be > 0")
	}
	if c.Directory.SearchTimeout <= 0 {
		return errors.New("DIRECTORY_SEARCH_TIMEOUT must be > 0")
	}
	// Si el scrape sigue después del write deadline, la respuesta ya no llega al cliente.
	if c.Directory.SearchTimeout >= c.WriteTimeout {
		return errors.New("DIRECTORY_SEARCH_TIMEOUT must be shorter than HTTP_WRITE_TIMEOUT")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	// Con DB real, las sesiones tienen que sobrevivir reinicios: el secret no puede ser aleatorio.
	if c.DatabaseDSN != "" && len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes when DB_DSN is set")
	}
	return nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid bool %q", key, v))
		return def
	}
	return b
}
