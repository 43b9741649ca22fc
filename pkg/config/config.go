package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	TwelveData struct {
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url"`
		OutputSize int           `yaml:"output_size"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRPS     float64       `yaml:"max_rps"`
		Burst      float64       `yaml:"burst"`
	} `yaml:"twelvedata"`
	Telegram struct {
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`
	Engine struct {
		EMAFast      int           `yaml:"ema_fast"`
		EMASlow      int           `yaml:"ema_slow"`
		RSIPeriod    int           `yaml:"rsi_period"`
		FlatEps      float64       `yaml:"flat_eps"`
		GatesEnabled bool          `yaml:"gates_enabled"`
		Sessions     []HourWindow  `yaml:"sessions"`
		NewsWindows  []ClockWindow `yaml:"news_windows"`
	} `yaml:"engine"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		Linger       time.Duration `yaml:"linger"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
}

// HourWindow is an inclusive [From, To] range of UTC hours.
type HourWindow struct {
	FromHour int `yaml:"from_hour"`
	ToHour   int `yaml:"to_hour"`
}

// ClockWindow is an inclusive ["HH:MM", "HH:MM"] range of UTC wall-clock time.
type ClockWindow struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// The TwelveData key is deliberately not required at startup: an absent key
// surfaces per evaluation as an ERROR result, not as a boot failure.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.TwelveData.BaseURL == "" {
		c.TwelveData.BaseURL = "https://api.twelvedata.com"
	}
	if c.TwelveData.OutputSize == 0 {
		c.TwelveData.OutputSize = 100
	}
	if c.TwelveData.Timeout == 0 {
		c.TwelveData.Timeout = 10 * time.Second
	}
	if c.TwelveData.MaxRPS == 0 {
		c.TwelveData.MaxRPS = 2
	}
	if c.TwelveData.Burst == 0 {
		c.TwelveData.Burst = 8
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 10 * time.Second
	}
	if c.Engine.EMAFast == 0 {
		c.Engine.EMAFast = 20
	}
	if c.Engine.EMASlow == 0 {
		c.Engine.EMASlow = 50
	}
	if c.Engine.RSIPeriod == 0 {
		c.Engine.RSIPeriod = 14
	}
	if c.Engine.FlatEps == 0 {
		c.Engine.FlatEps = 1e-5
	}
	if len(c.Engine.Sessions) == 0 {
		// London and New York sessions, UTC.
		c.Engine.Sessions = []HourWindow{{FromHour: 7, ToHour: 16}, {FromHour: 12, ToHour: 21}}
	}
	if len(c.Engine.NewsWindows) == 0 {
		// CPI/NFP announcement window, UTC, inclusive on both ends.
		c.Engine.NewsWindows = []ClockWindow{{From: "13:00", To: "14:00"}}
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Engine.EMAFast >= c.Engine.EMASlow {
		return fmt.Errorf("engine.ema_fast (%d) must be smaller than engine.ema_slow (%d)", c.Engine.EMAFast, c.Engine.EMASlow)
	}
	if c.Engine.FlatEps <= 0 {
		return fmt.Errorf("engine.flat_eps must be positive")
	}
	for _, s := range c.Engine.Sessions {
		if s.FromHour < 0 || s.FromHour > 23 || s.ToHour < 0 || s.ToHour > 23 {
			return fmt.Errorf("engine.sessions hours must be in 0..23")
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}
	return nil
}
