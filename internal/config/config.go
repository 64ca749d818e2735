package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска сервера.
// Значения берутся из окружения, -host и -port перекрывают их флагами.
type Config struct {
	Host     string `env:"MOOD_HOST"      envDefault:"localhost"`
	Port     int    `env:"MOOD_PORT"      envDefault:"12345"`
	HTTPAddr string `env:"MOOD_HTTP_ADDR"`

	// Seed - зерно генератора тикера. 0 значит "взять от текущего времени".
	Seed         int64         `env:"MOOD_SEED"`
	TickInterval time.Duration `env:"MOOD_TICK_INTERVAL" envDefault:"30s"`

	// Темп команд одной сессии. PaceInterval=0 отключает ограничение.
	PaceInterval time.Duration `env:"MOOD_PACE_INTERVAL" envDefault:"1s"`
	PaceBurst    int           `env:"MOOD_PACE_BURST"    envDefault:"5"`

	HandshakeTimeout time.Duration `env:"MOOD_HANDSHAKE_TIMEOUT" envDefault:"30s"`
	WriteTimeout     time.Duration `env:"MOOD_WRITE_TIMEOUT"     envDefault:"10s"`
	OutboxSize       int           `env:"MOOD_OUTBOX_SIZE"       envDefault:"64"`
	MaxFrameBytes    int           `env:"MOOD_MAX_FRAME_BYTES"   envDefault:"65536"`
	ChatWidth        int           `env:"MOOD_CHAT_WIDTH"        envDefault:"200"`

	JournalPath string `env:"MOOD_JOURNAL_PATH"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Parse читает окружение, затем флаги.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	return parse(fs, args, env.Options{})
}

func parse(fs *flag.FlagSet, args []string, opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default - конфиг со значениями по умолчанию, без окружения.
// Удобен в тестах.
func Default() Config {
	var cfg Config
	// Пустое окружение: envDefault всегда разбирается
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic("config defaults: " + err.Error())
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1..65535", c.Port))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick interval must be positive"))
	}
	if c.PaceInterval < 0 {
		errs = append(errs, errors.New("pace interval cannot be negative"))
	}
	if c.PaceInterval > 0 && c.PaceBurst < 1 {
		errs = append(errs, errors.New("pace burst must be at least 1"))
	}
	// welcome и собственный PlayerJoined ложатся в очередь до старта писателя
	if c.OutboxSize < 2 {
		errs = append(errs, errors.New("outbox size must be at least 2"))
	}
	if c.MaxFrameBytes < 1 {
		errs = append(errs, errors.New("max frame bytes must be positive"))
	}
	if c.ChatWidth < 1 {
		errs = append(errs, errors.New("chat width must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr - адрес TCP слушателя.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WorldSeed возвращает зерно мира, подставляя время вместо нуля.
func (c Config) WorldSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
