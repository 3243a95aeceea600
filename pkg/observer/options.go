package observer

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/passview/pkg/cache"
	"github.com/matzehuels/passview/pkg/config"
	"github.com/matzehuels/passview/pkg/sink"
)

// Option configures an Observer.
type Option func(*settings)

type settings struct {
	cfg      *config.Config
	seq      Sequence
	renderer Renderer
	sink     sink.Sink
	cache    cache.Cache
	logger   *log.Logger
}

// WithConfig uses c instead of the process-wide config.Current().
func WithConfig(c config.Config) Option {
	return func(s *settings) { s.cfg = &c }
}

// WithSequence draws the pass number from seq instead of the process-wide
// sequence. PassCount does not see numbers handed out by seq.
func WithSequence(seq Sequence) Option {
	return func(s *settings) {
		if seq != nil {
			s.seq = seq
		}
	}
}

// WithRenderer replaces the default Graphviz snapshot renderer.
func WithRenderer(r Renderer) Option {
	return func(s *settings) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithSink writes artifacts to snk instead of opening the configured
// destination. The caller keeps ownership and closes it.
func WithSink(snk sink.Sink) Option {
	return func(s *settings) { s.sink = snk }
}

// WithCache reuses rendered diagrams from c when the same diagram was
// rendered before in the same format. By default nothing is cached.
func WithCache(c cache.Cache) Option {
	return func(s *settings) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{seq: defaultSequence, cache: cache.NewNullCache()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
