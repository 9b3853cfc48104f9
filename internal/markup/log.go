package markup

import (
	"log"
	"os"
)

// Logger 记录解析降级告警（引用/代码块/表格/HTML 压平）。
// 根包的 SetLogger 会同步替换这里。
var Logger = log.New(os.Stderr, "[editcore] ", log.LstdFlags)

// SetLogger 设置自定义日志记录器
func SetLogger(l *log.Logger) {
	if l != nil {
		Logger = l
	}
}
