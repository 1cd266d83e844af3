package tablemaker

import (
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last
// text edit before it is applied to the document.
const DefaultDebounce = 250 * time.Millisecond

// Option configures a Controller or the
// storage conversion functions.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	richText  RichText
	scheduler Scheduler
	debounce  time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:   zap.NewNop(),
		richText: NoRichText,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.scheduler == nil {
		o.scheduler = TimerScheduler{}
	}
	return o
}

// WithLogger sets the logger for warnings about
// malformed values and failing rich-text conversions.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
	}
}

// WithRichText sets the rich-text capability.
// A nil capability is the same as NoRichText.
func WithRichText(richText RichText) Option {
	return func(o *options) {
		if richText == nil {
			richText = NoRichText
		}
		o.richText = richText
	}
}

// WithScheduler sets the Scheduler used for debouncing.
func WithScheduler(scheduler Scheduler) Option {
	return func(o *options) {
		o.scheduler = scheduler
	}
}

// WithDebounce sets the debounce quiet period of text edits.
// Zero or negative durations apply edits immediately.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}
