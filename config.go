package editcore

import (
	"sync"

	"github.com/riverfjs/editcore-go/internal/markup"
)

// 导出类型别名
type Symbol = markup.Symbol
type Config = markup.Config
type PluginType = markup.PluginType

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default codec configuration (singleton).
func DefaultConfig() *Config {
	defaultConfigOnce.Do(func() {
		defaultConfig = markup.DefaultConfig()
	})
	return defaultConfig
}
