// option.go defines configuration options for nodes.

package node

// defaultEpsilon is the stabilizer constant handed to the transform when
// no explicit one is configured.
const defaultEpsilon = 1e-6

type Config struct {
	Queueing bool
	Epsilon  float64
}

func defaultConfig() Config {
	return Config{
		Queueing: true,
		Epsilon:  defaultEpsilon,
	}
}

type Option interface {
	apply(*Config)
}

type Options []Option

func (opts Options) apply(cfg *Config) {
	for _, opt := range opts {
		opt.apply(cfg)
	}
}

func (opts Options) config() Config {
	cfg := defaultConfig()
	opts.apply(&cfg)
	return cfg
}

type OptionQueueing bool

func (o OptionQueueing) apply(cfg *Config) {
	cfg.Queueing = bool(o)
}

type OptionEpsilon float64

func (o OptionEpsilon) apply(cfg *Config) {
	cfg.Epsilon = float64(o)
}
