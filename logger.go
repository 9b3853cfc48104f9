package editcore

import (
	"log"

	"github.com/riverfjs/editcore-go/internal/markup"
)

// Logger 全局日志记录器，编解码的降级告警走这里
var Logger = markup.Logger

// SetLogger 设置自定义日志记录器
func SetLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	Logger = logger
	markup.SetLogger(logger)
}
