package vars

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 服务配置，来源优先级：环境变量 LEX_* > lexassist.yaml > 默认值
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Translator TranslatorConfig `mapstructure:"translator"`
	LLM        LLMConfig        `mapstructure:"llm"`
	DB         DBConfig         `mapstructure:"db"`
	ES         ESConfig         `mapstructure:"es"`
	CallLog    CallLogConfig    `mapstructure:"call_log"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	Mode          string `mapstructure:"mode"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

type GeneratorConfig struct {
	Mode     string        `mapstructure:"mode"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type TranslatorConfig struct {
	Mode     string        `mapstructure:"mode"`
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
}

type ESConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	TopK      int      `mapstructure:"top_k"`
}

type CallLogConfig struct {
	Retention time.Duration `mapstructure:"retention"`
	PruneSpec string        `mapstructure:"prune_spec"`
}

// DSN 按驱动拼接连接串
func (c DBConfig) DSN() string {
	if c.Driver == DRIVER_SQLITE {
		return c.Path
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// Load 读取 .env、配置文件与环境变量；paths 为空时搜索当前目录和 $HOME/.lexassist
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("lexassist")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "$HOME/.lexassist"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("LEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
		log.Println(">>> [CONFIG] 未找到 lexassist.yaml，使用默认配置")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_upload_size", 20<<20)

	v.SetDefault("generator.mode", MODE_HTTP)
	v.SetDefault("generator.endpoint", "http://localhost:8000/generate-contract")
	v.SetDefault("generator.timeout", "120s")

	v.SetDefault("translator.mode", MODE_NONE)
	v.SetDefault("translator.endpoint", "http://localhost:5000/translate")
	v.SetDefault("translator.api_key", "")
	v.SetDefault("translator.timeout", "30s")

	v.SetDefault("llm.provider", PROVIDER_OLLAMA)
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", QWEN7B)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", "120s")

	v.SetDefault("db.driver", DRIVER_SQLITE)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "lexassist")
	v.SetDefault("db.path", "lexassist.db")

	v.SetDefault("es.enabled", false)
	v.SetDefault("es.addresses", []string{"http://localhost:9200"})
	v.SetDefault("es.index", AUTHORITY_INDEX)
	v.SetDefault("es.top_k", 3)

	v.SetDefault("call_log.retention", "168h")
	v.SetDefault("call_log.prune_spec", "0 0 3 * * *")
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server address: %v", err)
	}
	if c.Server.MaxUploadSize <= 0 {
		return errors.New("server max_upload_size must be positive")
	}

	switch c.Generator.Mode {
	case MODE_HTTP:
		if c.Generator.Endpoint == "" {
			return errors.New("generator endpoint cannot be empty in http mode")
		}
	case MODE_LLM:
	default:
		return fmt.Errorf("unknown generator mode %q", c.Generator.Mode)
	}

	switch c.Translator.Mode {
	case MODE_HTTP:
		if c.Translator.Endpoint == "" {
			return errors.New("translator endpoint cannot be empty in http mode")
		}
	case MODE_LLM, MODE_NONE:
	default:
		return fmt.Errorf("unknown translator mode %q", c.Translator.Mode)
	}

	if c.Generator.Mode == MODE_LLM || c.Translator.Mode == MODE_LLM {
		switch c.LLM.Provider {
		case PROVIDER_OLLAMA:
			if c.LLM.BaseURL == "" {
				return errors.New("llm base_url cannot be empty for ollama")
			}
		case PROVIDER_OPENAI:
			if c.LLM.APIKey == "" {
				return errors.New("llm api_key cannot be empty for openai")
			}
		default:
			return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			return errors.New("llm model cannot be empty")
		}
	}

	switch c.DB.Driver {
	case DRIVER_POSTGRES:
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.New("db host and name cannot be empty for postgres")
		}
	case DRIVER_SQLITE:
		if c.DB.Path == "" {
			return errors.New("db path cannot be empty for sqlite")
		}
	case DRIVER_NONE:
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}

	if c.ES.Enabled {
		if len(c.ES.Addresses) == 0 {
			return errors.New("es addresses cannot be empty when es is enabled")
		}
		if c.ES.Index == "" {
			return errors.New("es index cannot be empty when es is enabled")
		}
	}

	if c.CallLog.Retention <= 0 {
		return errors.New("call_log retention must be positive")
	}
	return nil
}
