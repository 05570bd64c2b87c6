package readahead

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a config of the buffer.
//
// It can be modified only by passing configuration functions to [New].
type Config struct {
	logger     logrus.FieldLogger
	prometheus *PrometheusConfig
}

// ConfigFunc is a function that modifies the buffer's config.
type ConfigFunc = func(c *Config)

// Logger sets the logger used by the buffer. By default, nothing is logged.
func (c *Config) Logger(logger logrus.FieldLogger) {
	if logger == nil {
		panic("logger can't be nil")
	}
	c.logger = logger
}

// Prometheus sets the Prometheus metrics config. By default, metrics are collected but not
// registered anywhere.
func (c *Config) Prometheus(prometheus *PrometheusConfig) {
	if prometheus == nil {
		panic("prometheus can't be nil")
	}
	c.prometheus = prometheus
}

func newConfig(configFuncs ...ConfigFunc) *Config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := Config{}
	c.Logger(discard)
	c.Prometheus(Prometheus(nil))
	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}
