package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FIGHTER_SERVER_PORT.
const EnvPrefix = "FIGHTER"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Docs     DocsConfig     `mapstructure:"docs"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Mode        string        `mapstructure:"mode"` // sqlite | sqlite_memory | mysql | postgres
	SQLitePath  string        `mapstructure:"sqlite_path"`
	MySQLDSN    string        `mapstructure:"mysql_dsn"`
	PostgresDSN string        `mapstructure:"postgres_dsn"`
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLife     time.Duration `mapstructure:"max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	// AllowedOrigins lists the CORS origins that are permitted.
	// An empty slice allows all origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AdminAllowedIPs restricts /admin to these addresses or CIDR ranges.
	// An empty slice allows every address.
	AdminAllowedIPs []string `mapstructure:"admin_allowed_ips"`
}

type SeedConfig struct {
	OnStart bool          `mapstructure:"on_start"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

type DocsConfig struct {
	Path string `mapstructure:"path"`
}

type AuditConfig struct {
	Buffer        int           `mapstructure:"buffer"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	// Retention is how long audit rows are kept; 0 keeps them forever.
	Retention     time.Duration `mapstructure:"retention"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("fighter", pflag.ContinueOnError)
	flags.String("config", "config/config.yaml", "path to the YAML config file")
	flags.Int("port", 3000, "HTTP listen port")
	flags.Bool("seed", false, "wipe the fighter table and load the demo fighters before serving")
	return flags
}

// Load reads config from the YAML file at path (if it exists), then applies
// .env, FIGHTER_* environment variables and any flags that were set.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("port"); f != nil && f.Changed {
			if err := v.BindPFlag("server.port", f); err != nil {
				return nil, err
			}
		}
		if f := flags.Lookup("seed"); f != nil && f.Changed {
			if err := v.BindPFlag("seed.on_start", f); err != nil {
				return nil, err
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.admin_key", "")
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/fighter.db")
	v.SetDefault("database.mysql_dsn", "")
	v.SetDefault("database.postgres_dsn", "")
	v.SetDefault("database.max_open", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_life", "1h")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("security.allowed_origins", []string{})
	v.SetDefault("security.admin_allowed_ips", []string{})
	v.SetDefault("seed.on_start", false)
	v.SetDefault("seed.lock_ttl", "30s")
	v.SetDefault("docs.path", "/about/api")
	v.SetDefault("audit.buffer", 1024)
	v.SetDefault("audit.flush_interval", "2s")
	v.SetDefault("audit.retention", "720h")
	v.SetDefault("audit.prune_interval", "1h")
}
