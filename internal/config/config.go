package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
		// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
		// headers are honoured when resolving the client IP. Empty trusts none.
		TrustedProxies []string `mapstructure:"trusted_proxies"`
	}
	Database struct {
		Path string
	}
	CORS struct {
		Origins []string
	}
	Log struct {
		Level  string
		Format string
	}
	AccessLog struct {
		Auto bool
	} `mapstructure:"access_log"`
	Defaults struct {
		OwnerUsername string `mapstructure:"owner_username"`
		OwnerEmail    string `mapstructure:"owner_email"`
	}
	Report struct {
		Brand    string
		Locale   string
		Compress bool
		// Optional TrueType files replacing the built-in Go fonts.
		FontRegular string `mapstructure:"font_regular"`
		FontBold    string `mapstructure:"font_bold"`
	}
}

// Load reads configuration from environment variables and optional config files.
// Environment variables use the PORTAL_ prefix, e.g. PORTAL_SERVER_ADDR.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.path", "data/app.db")
	v.SetDefault("cors.origins", []string{"http://localhost:8080"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("access_log.auto", true)
	v.SetDefault("defaults.owner_username", "default")
	v.SetDefault("defaults.owner_email", "default@example.com")
	v.SetDefault("report.brand", "Portal")
	v.SetDefault("report.locale", "en")
	v.SetDefault("report.compress", true)
	v.SetDefault("report.font_regular", "")
	v.SetDefault("report.font_bold", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORS.Origins = splitList(cfg.CORS.Origins)
	cfg.Server.TrustedProxies = splitList(cfg.Server.TrustedProxies)

	if strings.TrimSpace(cfg.Defaults.OwnerUsername) == "" {
		return Config{}, fmt.Errorf("defaults.owner_username must not be empty")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.Log.Format)
	}

	return cfg, nil
}

// splitList accepts both list values and a comma separated env value.
func splitList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
