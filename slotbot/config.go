package slotbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	// Hosting platforms inject the token via the environment; it wins over
	// the config file so the file never has to contain a real token.
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Bot    BotConfig    `toml:"bot"`
	Slots  SlotsConfig  `toml:"slots"`
	Server ServerConfig `toml:"server"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type SlotsConfig struct {
	// CategoryID is the category every slot channel is created under.
	CategoryID       snowflake.ID `toml:"category_id"`
	NoticeTTLSeconds int          `toml:"notice_ttl_seconds"`
	PresenceName     string       `toml:"presence_name"`
	PresenceURL      string       `toml:"presence_url"`
}

// NoticeTTL is how long transient quota notices stay visible.
func (c SlotsConfig) NoticeTTL() time.Duration {
	if c.NoticeTTLSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.NoticeTTLSeconds) * time.Second
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}
