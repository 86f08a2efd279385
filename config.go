package pace

import (
	"time"
)

// Config describes a debouncer or throttler in plain data, so it can be
// loaded from configuration files.
type Config struct {
	Wait     time.Duration `mapstructure:"wait" yaml:"wait"`
	MaxWait  time.Duration `mapstructure:"max_wait" yaml:"max_wait"`
	Leading  bool          `mapstructure:"leading" yaml:"leading"`
	Trailing bool          `mapstructure:"trailing" yaml:"trailing"`
}

// Options returns the options described by c, followed by extra.
func (c Config) Options(extra ...Option) []Option {
	opts := make([]Option, 0, 3+len(extra))

	if c.Leading {
		opts = append(opts, WithLeading())
	}
	if c.Trailing {
		opts = append(opts, WithTrailing())
	}
	if c.MaxWait > 0 {
		opts = append(opts, WithMaxWait(c.MaxWait))
	}

	return append(opts, extra...)
}

// NewDebouncer returns a Debouncer for f configured by c.
func (c Config) NewDebouncer(f func(), extra ...Option) *Debouncer {
	return NewDebouncer(c.Wait, f, c.Options(extra...)...)
}

// NewThrottler returns a Throttler configured by c. Only Wait applies.
func (c Config) NewThrottler(extra ...Option) *Throttler {
	return NewThrottler(c.Wait, c.Options(extra...)...)
}
