package checkout

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// Handle is the result of opening the primary channel. Closed reports whether
// the opened context is already gone; known is false when the state cannot be
// determined (treated as a fallback trigger).
type Handle interface {
	Closed() (closed, known bool)
}

// Navigator is the capability the opener drives. OpenTab attempts the primary
// channel (a new browsing context); Replace performs an in-place navigation
// that does not add a history entry.
type Navigator interface {
	OpenTab(url string) (Handle, error)
	Replace(url string) error
}

// Opener runs the two-step delivery protocol: attempt the primary channel,
// and on any sign of failure wait a short delay and fall back to an in-place
// replace of the same URL. Only an untrusted URL is a hard error.
type Opener struct {
	nav    Navigator
	delay  time.Duration
	sleep  func(time.Duration)
	logger *zap.Logger
}

// NewOpener creates an opener with the given fallback delay.
func NewOpener(nav Navigator, delay time.Duration, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{nav: nav, delay: delay, sleep: time.Sleep, logger: logger}
}

// WithSleep replaces the delay function. Tests use this to avoid real waits.
func (o *Opener) WithSleep(sleep func(time.Duration)) *Opener {
	o.sleep = sleep
	return o
}

// Outcome reports how the message URL was delivered.
type Outcome struct {
	UsedFallback bool
}

// Open validates the URL and runs the protocol. The returned error is non-nil
// only for an untrusted URL; every other failure resolves through the
// fallback and is logged, never surfaced.
func (o *Opener) Open(url string) (Outcome, error) {
	if !strings.HasPrefix(url, TrustedChannelPrefix) {
		return Outcome{}, &errors.ErrUntrustedChannel{URL: url}
	}

	handle, err := o.openPrimary(url)
	if err != nil {
		o.logger.Warn("Primary channel open failed, falling back", zap.Error(err))
		return o.fallback(url), nil
	}
	if handle == nil {
		o.logger.Warn("Primary channel returned no handle, falling back")
		return o.fallback(url), nil
	}
	if closed, known := handle.Closed(); closed || !known {
		o.logger.Warn("Primary channel handle closed or undetermined, falling back",
			zap.Bool("closed", closed), zap.Bool("known", known))
		return o.fallback(url), nil
	}

	return Outcome{}, nil
}

// openPrimary converts a panicking navigator into an error so the protocol
// still reaches the fallback.
func (o *Opener) openPrimary(url string) (handle Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			handle = nil
			err = &openPanicError{value: r}
		}
	}()
	return o.nav.OpenTab(url)
}

func (o *Opener) fallback(url string) Outcome {
	o.sleep(o.delay)
	if err := o.nav.Replace(url); err != nil {
		// The message must still reach the user by some channel; nothing
		// further to do here but record it.
		o.logger.Error("Fallback replace navigation failed", zap.Error(err))
	}
	return Outcome{UsedFallback: true}
}

type openPanicError struct {
	value interface{}
}

func (e *openPanicError) Error() string {
	return "open attempt panicked"
}
