package playground

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
)

const (
	DefaultCookieName = "formgen_playground"
	DefaultSessionTTL = 2 * time.Hour
	DefaultEchoPath   = "/echo"
	DefaultResetPath  = "/reset"
)

type Options struct {
	ReservedField string
	CookieName    string
	SessionTTL    time.Duration
	MaxBodyBytes  int64
	EchoPath      string
	ResetPath     string

	Logger *log.Logger
	Now    func() time.Time
	NewID  func() string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		ReservedField: DefaultReservedField,
		CookieName:    DefaultCookieName,
		SessionTTL:    DefaultSessionTTL,
		MaxBodyBytes:  formdata.DefaultMaxBodyBytes,
		EchoPath:      DefaultEchoPath,
		ResetPath:     DefaultResetPath,
		Logger:        log.New(io.Discard),
		Now:           time.Now,
		NewID:         newSessionID,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.ReservedField == "" {
		opts.ReservedField = DefaultReservedField
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.SessionTTL < 0 {
		opts.SessionTTL = 0
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = formdata.DefaultMaxBodyBytes
	}
	if opts.EchoPath == "" {
		opts.EchoPath = DefaultEchoPath
	}
	if opts.ResetPath == "" {
		opts.ResetPath = DefaultResetPath
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newSessionID
	}
	return opts
}

func WithReservedField(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ReservedField = name
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

// WithSessionTTL sets how long an idle session survives. Zero disables
// expiry.
func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithEchoPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EchoPath = path
	}
}

func WithResetPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ResetPath = path
	}
}

func WithLogger(logger *log.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

// WithSessionIDs overrides session id generation.
func WithSessionIDs(newID func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.NewID = newID
	}
}
