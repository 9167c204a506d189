package config

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	ton20config "github.com/gaze-network/ton20-indexer/modules/ton20/config"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/gaze-network/ton20-indexer/pkg/middleware/requestcontext"
	"github.com/gaze-network/ton20-indexer/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		EnableModules: []string{"ton20"},
		Modules: Modules{
			TON20: ton20config.Default(),
		},
	}
)

type Config struct {
	Logger        logger.Config    `mapstructure:"logger"`
	HTTPServer    HTTPServerConfig `mapstructure:"http_server"`
	EnableModules []string         `mapstructure:"enable_modules"`
	APIOnly       bool             `mapstructure:"api_only"`
	Modules       Modules          `mapstructure:"modules"`
}

type Modules struct {
	TON20 ton20config.Config `mapstructure:"ton20"`
}

type HTTPServerConfig struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

// Parse reads the configuration once. An empty configFile searches ./config.yaml.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "config"))

	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(config); err != nil {
			logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the configuration, parsing it from the default location if needed.
func Load() Config {
	return Parse("")
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slogx.String("package", "config"), slogx.Error(err))
	}
}
