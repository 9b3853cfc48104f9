package editcore

// InitOptions holds options for editor initialization.
type InitOptions struct {
	Config  *Config
	Plugins []PluginType
	Host    Host
}

// Option is a function that configures InitOptions.
type Option func(*InitOptions)

// WithConfig sets a custom codec Config.
func WithConfig(config *Config) Option {
	return func(opts *InitOptions) {
		opts.Config = config
	}
}

// WithPlugins 注册宿主扩展的节点类型，Codec 对它们透传
func WithPlugins(plugins ...PluginType) Option {
	return func(opts *InitOptions) {
		opts.Plugins = append(opts.Plugins, plugins...)
	}
}

// WithHost 注入宿主回调（内容外发、媒体登记、外部输入）
func WithHost(host Host) Option {
	return func(opts *InitOptions) {
		opts.Host = host
	}
}

// defaultInitOptions returns the default initialization options.
func defaultInitOptions() *InitOptions {
	return &InitOptions{
		Config: DefaultConfig(),
		Host:   HostFuncs{},
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *InitOptions {
	options := defaultInitOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
