package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muhammadmuzzammil1998/jsonc"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "qbot.config.json"

var ErrInvalid = errors.New("invalid config")

type Server struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
}

func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReconnectOnKick is read once at startup. Delay is in milliseconds.
type ReconnectOnKick struct {
	Enabled bool  `json:"enabled" yaml:"enabled"`
	Delay   int64 `json:"delay" yaml:"delay"`
}

func (r ReconnectOnKick) DelayDuration() time.Duration {
	return time.Duration(r.Delay) * time.Millisecond
}

type CorePlugin struct {
	ReconnectOnKick ReconnectOnKick `json:"reconnectOnKick" yaml:"reconnectOnKick"`
}

// PathfinderPlugin holds optional overrides for the movement defaults. Nil
// fields keep the defaults.
type PathfinderPlugin struct {
	CanDig              *bool `json:"canDig,omitempty" yaml:"canDig,omitempty"`
	AllowParkour        *bool `json:"allowParkour,omitempty" yaml:"allowParkour,omitempty"`
	AllowSprinting      *bool `json:"allowSprinting,omitempty" yaml:"allowSprinting,omitempty"`
	AllowOneByOneTowers *bool `json:"allow1by1towers,omitempty" yaml:"allow1by1towers,omitempty"`
	MaxDropDown         *int  `json:"maxDropDown,omitempty" yaml:"maxDropDown,omitempty"`
}

type Plugins struct {
	Core       CorePlugin       `json:"core" yaml:"core"`
	Pathfinder PathfinderPlugin `json:"pathfinder" yaml:"pathfinder"`
}

type Status struct {
	ListenAddress string `json:"listenAddress" yaml:"listenAddress"`
}

type Config struct {
	Server  Server  `json:"server" yaml:"server"`
	Plugins Plugins `json:"plugins" yaml:"plugins"`
	Status  Status  `json:"status" yaml:"status"`
}

func Default() Config {
	return Config{
		Server: Server{
			Host:     "localhost",
			Port:     25565,
			Username: "qbot",
		},
		Plugins: Plugins{
			Core: CorePlugin{
				ReconnectOnKick: ReconnectOnKick{
					Enabled: true,
					Delay:   5000,
				},
			},
		},
	}
}

// NewConfig loads the file named by QBOT_CONFIG, falling back to DefaultPath.
func NewConfig() (Config, error) {
	path := os.Getenv("QBOT_CONFIG")
	if path == "" {
		path = DefaultPath
	}

	return Load(path)
}

// Load reads a config file on top of Default. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON with comments.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	return c, nil
}

func Parse(data []byte, ext string) (Config, error) {
	c := Default()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, err
		}
	default:
		if err := jsonc.Unmarshal(data, &c); err != nil {
			return Config{}, err
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("%w: server.host is required", ErrInvalid)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalid, c.Server.Port)
	}
	if c.Server.Username == "" {
		return fmt.Errorf("%w: server.username is required", ErrInvalid)
	}
	if d := c.Plugins.Pathfinder.MaxDropDown; d != nil && *d < 0 {
		return fmt.Errorf("%w: plugins.pathfinder.maxDropDown must not be negative", ErrInvalid)
	}

	return nil
}
