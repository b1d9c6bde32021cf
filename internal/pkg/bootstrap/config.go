// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"caddie/internal/pkg/logger"
)

// Config 汇总了所有服务共享的配置。
// 来源优先级：环境变量 > CONFIG_PATH 指定的 YAML 文件 > 内置默认值。
type Config struct {
	App struct {
		// BaseURL 是面向用户的站点地址，用于拼接支付成功/取消的回跳链接
		BaseURL     string `yaml:"baseURL"`
		SuccessPath string `yaml:"successPath"`
		CancelPath  string `yaml:"cancelPath"`

		FeatureFlags struct {
			EnableCoupons bool `yaml:"enableCoupons"`
		} `yaml:"featureFlags"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`

		Kafka struct {
			Brokers           string `yaml:"brokers"` // 逗号分隔
			ConfirmationTopic string `yaml:"confirmationTopic"`
			StatusTopic       string `yaml:"statusTopic"`
		} `yaml:"kafka"`

		Redis struct {
			Addrs string `yaml:"addrs"` // 逗号分隔
		} `yaml:"redis"`

		Mysql struct {
			Addr     string `yaml:"addr"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Database string `yaml:"database"`
		} `yaml:"mysql"`

		// Payment 是外部托管收银台（payment gateway）的接入配置
		Payment struct {
			BaseURL       string `yaml:"baseURL"`
			APIKey        string `yaml:"apiKey"`
			WebhookSecret string `yaml:"webhookSecret"`
		} `yaml:"payment"`

		// SheetDB 是外部表格数据库服务；BaseURL 为空表示未配置，
		// 适配器会退化为本地生成标识符（见 checkout 的适配器）
		SheetDB struct {
			BaseURL string `yaml:"baseURL"`
			APIKey  string `yaml:"apiKey"`
		} `yaml:"sheetdb"`

		// Email 是外部邮件API；APIKey 为空表示未配置，只打日志不发送
		Email struct {
			BaseURL string `yaml:"baseURL"`
			APIKey  string `yaml:"apiKey"`
			From    string `yaml:"from"`
		} `yaml:"email"`
	} `yaml:"infra"`
}

var (
	currentConfig *Config
	configOnce    sync.Once
)

// Init 加载配置。必须在 GetCurrentConfig 之前被调用（通常在 main 的第一行）。
func Init() {
	configOnce.Do(func() {
		cfg := defaultConfig()

		if path := os.Getenv("CONFIG_PATH"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Logger.Fatal().Err(err).Str("path", path).Msg("failed to read config file")
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				logger.Logger.Fatal().Err(err).Str("path", path).Msg("failed to parse config file")
			}
		}

		applyEnvOverrides(cfg)
		currentConfig = cfg
	})
}

// GetCurrentConfig 返回进程级配置。Init 未被调用时直接 panic，属于编程错误。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		panic("bootstrap.Init must be called before GetCurrentConfig")
	}
	return currentConfig
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.BaseURL = "http://localhost:3000"
	cfg.App.SuccessPath = "/success"
	cfg.App.CancelPath = "/customize?canceled=true"
	cfg.App.FeatureFlags.EnableCoupons = true

	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Kafka.Brokers = "localhost:9092"
	cfg.Infra.Kafka.ConfirmationTopic = "order-confirmations"
	cfg.Infra.Kafka.StatusTopic = "order-status"
	cfg.Infra.Redis.Addrs = "localhost:6379"
	cfg.Infra.Mysql.Addr = "localhost:3306"
	cfg.Infra.Mysql.User = "caddie"
	cfg.Infra.Mysql.Password = "caddie"
	cfg.Infra.Mysql.Database = "caddie"
	cfg.Infra.Email.From = "orders@customcaddie.com"
	return cfg
}

// applyEnvOverrides 让容器环境可以不带配置文件直接起服务。
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.App.BaseURL, "SITE_BASE_URL")
	overrideString(&cfg.Infra.Jaeger.Endpoint, "JAEGER_ENDPOINT")
	overrideString(&cfg.Infra.Kafka.Brokers, "KAFKA_BROKERS")
	overrideString(&cfg.Infra.Redis.Addrs, "REDIS_ADDRS")
	overrideString(&cfg.Infra.Mysql.Addr, "MYSQL_ADDR")
	overrideString(&cfg.Infra.Mysql.User, "MYSQL_USER")
	overrideString(&cfg.Infra.Mysql.Password, "MYSQL_PASSWORD")
	overrideString(&cfg.Infra.Mysql.Database, "MYSQL_DATABASE")
	overrideString(&cfg.Infra.Payment.BaseURL, "PAYMENT_BASE_URL")
	overrideString(&cfg.Infra.Payment.APIKey, "PAYMENT_API_KEY")
	overrideString(&cfg.Infra.Payment.WebhookSecret, "PAYMENT_WEBHOOK_SECRET")
	overrideString(&cfg.Infra.SheetDB.BaseURL, "SHEETDB_BASE_URL")
	overrideString(&cfg.Infra.SheetDB.APIKey, "SHEETDB_API_KEY")
	overrideString(&cfg.Infra.Email.BaseURL, "EMAIL_BASE_URL")
	overrideString(&cfg.Infra.Email.APIKey, "EMAIL_API_KEY")
	overrideString(&cfg.Infra.Email.From, "EMAIL_FROM")
}

func overrideString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*dst = value
	}
}
