package core

import (
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

//Config 配置文件，字段和Options一一对应
type Config struct {
	TokenCounter   int    `yaml:"token_counter"`
	ContextCounter int    `yaml:"context_counter"`
	LogPath        string `yaml:"log_path"`
}

//LoadConfig 从yaml文件加载配置
func LoadConfig(path string) (*Config, error) {

	bs, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := new(Config)
	if err := yaml.Unmarshal(bs, config); err != nil {
		return nil, err
	}

	return config, nil
}

//Options 转换成可选项，方便直接传给New
func (c *Config) Options() []Option {
	return []Option{
		WithTokenCounter(c.TokenCounter),
		WithContextCounter(c.ContextCounter),
		WithLogPath(c.LogPath),
	}
}
