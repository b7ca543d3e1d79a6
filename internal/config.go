package internal

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tuannm99/pagepool/internal/bufferpool"
)

type PagePoolConfig struct {
	Pool struct {
		File     string `mapstructure:"file"`
		Frames   int    `mapstructure:"frames"`
		Strategy string `mapstructure:"strategy"`
		LruK     int    `mapstructure:"lru_k"`
	} `mapstructure:"pool"`
	Log struct {
		Debug bool `mapstructure:"debug"`
	} `mapstructure:"log"`
}

func LoadConfig(path string) (*PagePoolConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("pool.frames", bufferpool.DefaultCapacity)
	v.SetDefault("pool.strategy", "lru")
	v.SetDefault("pool.lru_k", bufferpool.DefaultHistoryDepth)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg PagePoolConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// PoolStrategy resolves the configured strategy string.
func (c *PagePoolConfig) PoolStrategy() (bufferpool.Strategy, error) {
	return bufferpool.ParseStrategy(c.Pool.Strategy)
}
