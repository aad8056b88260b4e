// Package config loads the connection settings of the fluentdao command from
// defaults, a YAML file, FLUENTDAO_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	fluentdao "github.com/biyonik/go-fluent-dao"
)

// EnvPrefix is the prefix of environment variables read by Load.
// A double underscore separates nested keys: FLUENTDAO_REDIS__ADDR -> redis.addr.
const EnvPrefix = "FLUENTDAO_"

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{"fluentdao.yaml", "fluentdao.yml"}

// Result is a loaded configuration together with the file it came from.
type Result struct {
	Config *fluentdao.Config
	File   string
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags the user actually set take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Result, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &fluentdao.Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, File: used}, nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"host":           "host",
	"port":           "port",
	"user":           "user",
	"password":       "password",
	"database":       "database",
	"charset":        "charset",
	"tables":         "tables",
	"render-mode":    "render_mode",
	"debug":          "debug",
	"redis":          "redis.enabled",
	"redis-addr":     "redis.addr",
	"redis-password": "redis.password",
	"redis-db":       "redis.db",
	"redis-ttl":      "redis.ttl",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := fluentdao.DefaultConfig()
	fs.String("host", d.Host, "MySQL host")
	fs.Int("port", d.Port, "MySQL port")
	fs.StringP("user", "u", "", "MySQL user")
	fs.StringP("password", "p", "", "MySQL password")
	fs.StringP("database", "d", "", "schema to reflect")
	fs.String("charset", d.Charset, "connection charset")
	fs.StringSlice("tables", nil, "tables to reflect (default: all)")
	fs.String("render-mode", d.RenderMode, "statement rendering: literal|bound")
	fs.Bool("debug", false, "log every executed statement")
	fs.Bool("redis", false, "cache the catalog in Redis")
	fs.String("redis-addr", d.Redis.Addr, "Redis address")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database number")
	fs.Duration("redis-ttl", d.Redis.TTL, "catalog snapshot lifetime")
}

func defaults() map[string]interface{} {
	d := fluentdao.DefaultConfig()
	return map[string]interface{}{
		"host":               d.Host,
		"port":               d.Port,
		"charset":            d.Charset,
		"collation":          d.Collation,
		"max_open_conns":     d.MaxOpenConns,
		"max_idle_conns":     d.MaxIdleConns,
		"conn_max_lifetime":  d.ConnMaxLifetime.String(),
		"conn_max_idle_time": d.ConnMaxIdleTime.String(),
		"connect_timeout":    d.ConnectTimeout.String(),
		"render_mode":        d.RenderMode,
		"debug":              d.Debug,
		"redis.enabled":      d.Redis.Enabled,
		"redis.addr":         d.Redis.Addr,
		"redis.prefix":       d.Redis.Prefix,
		"redis.ttl":          d.Redis.TTL.String(),
	}
}

// envKey transforms FLUENTDAO_MAX_OPEN_CONNS -> max_open_conns and
// FLUENTDAO_REDIS__ADDR -> redis.addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile returns the explicit path, or the first default file present
// in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
