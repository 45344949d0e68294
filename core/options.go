package core

//Options 可选项配置，未配置时使用默认值
type Options struct {
	TokenCounter   int    // token计数器起始值，默认：0
	ContextCounter int    // context计数器起始值，默认：0
	LogPath        string // 日志路径，默认输出到stderr
}

type Option = func(opts *Options)

//parseOption 解析可选项
func parseOption(opts ...Option) *Options {
	options := new(Options)
	for _, opt := range opts {
		opt(options)
	}

	return options
}

//WithTokenCounter token计数器起始值
func WithTokenCounter(n int) Option {
	return func(opts *Options) {
		opts.TokenCounter = n
	}
}

//WithContextCounter context计数器起始值，需要预留一段context给引导逻辑时使用
func WithContextCounter(n int) Option {
	return func(opts *Options) {
		opts.ContextCounter = n
	}
}

//WithLogPath 日志保存路径
func WithLogPath(logPath string) Option {
	return func(opts *Options) {
		opts.LogPath = logPath
	}
}
