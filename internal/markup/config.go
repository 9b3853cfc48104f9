package markup

// Symbol 定义序列化输出使用的标记符号
type Symbol struct {
	Bullet       string // 无序列表项前缀
	OrderedDelim string // 有序列表序号分隔符
	Rule         string // 分隔线
	Indent       string // 嵌套列表每层缩进
}

// DefaultSymbol 返回默认符号配置
func DefaultSymbol() *Symbol {
	return &Symbol{
		Bullet:       "-",
		OrderedDelim: ".",
		Rule:         "---",
		Indent:       "  ",
	}
}

// Config 编解码配置
type Config struct {
	Symbol *Symbol
}

// DefaultConfig 返回默认编解码配置
func DefaultConfig() *Config {
	return &Config{Symbol: DefaultSymbol()}
}

// PluginType 描述由宿主扩展定义的节点类型。
// Codec 对注册过的类型打上插件注解并原样透传其 Data。
type PluginType struct {
	ID       string
	NodeType string
}
