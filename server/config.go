package server

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 服务进程配置，YAML 文件覆盖在 DefaultConfig 之上
type Config struct {
	Addr           string     `yaml:"addr"`
	TicksPerSecond int        `yaml:"ticks_per_second"`
	Room           RoomConfig `yaml:"room"`
	Log            LogConfig  `yaml:"log"`
}

// RoomConfig 房间规则，可通过 /admin/config 或配置文件热更新
type RoomConfig struct {
	Width            int `yaml:"width" json:"width"`
	Height           int `yaml:"height" json:"height"`
	SlimeLength      int `yaml:"slime_length" json:"slimeLength"`
	MoveEveryTicks   int `yaml:"move_every_ticks" json:"moveEveryTicks"`      // 每隔多少 Tick 执行一次移动步进
	BufferCapacity   int `yaml:"buffer_capacity" json:"bufferCapacity"`       // 新加入玩家的方向缓冲容量
	MaxInputsPerTick int `yaml:"max_inputs_per_tick" json:"maxInputsPerTick"` // 每玩家每 Tick 接受的方向请求数

	SimulateDelayMinMs int     `yaml:"simulate_delay_min_ms" json:"simulateDelayMinMs"`
	SimulateDelayMaxMs int     `yaml:"simulate_delay_max_ms" json:"simulateDelayMaxMs"`
	SimulateDropProb   float64 `yaml:"simulate_drop_prob" json:"simulateDropProb"`
}

// LogConfig 日志输出与滚动策略
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"` // 同时输出到 stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig 默认配置：20 TPS，20x20 网格，缓冲 4 个方向
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		TicksPerSecond: 20,
		Room: RoomConfig{
			Width:            20,
			Height:           20,
			SlimeLength:      3,
			MoveEveryTicks:   4,
			BufferCapacity:   DefaultBufferCapacity,
			MaxInputsPerTick: 1,
		},
		Log: LogConfig{
			File:       "app.log",
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig 读取 YAML 配置；path 为空时直接返回默认配置
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查配置取值范围
func (c Config) Validate() error {
	if c.TicksPerSecond <= 0 {
		return errors.New("ticks_per_second must be positive")
	}
	return c.Room.Validate()
}

func (c RoomConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("room size %dx%d must be positive", c.Width, c.Height)
	case c.SlimeLength <= 0:
		return errors.New("slime_length must be positive")
	case c.MoveEveryTicks <= 0:
		return errors.New("move_every_ticks must be positive")
	case c.BufferCapacity <= 0:
		return errors.New("buffer_capacity must be positive")
	case c.MaxInputsPerTick <= 0:
		return errors.New("max_inputs_per_tick must be positive")
	case c.SimulateDelayMinMs < 0 || c.SimulateDelayMaxMs < c.SimulateDelayMinMs:
		return fmt.Errorf("simulate delay range [%d,%d] invalid", c.SimulateDelayMinMs, c.SimulateDelayMaxMs)
	case c.SimulateDropProb < 0 || c.SimulateDropProb > 1:
		return fmt.Errorf("simulate_drop_prob %.2f out of [0,1]", c.SimulateDropProb)
	}
	return nil
}
