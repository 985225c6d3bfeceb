package checkout

import (
	"fmt"
	"testing"
	"time"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type fakeHandle struct {
	closed bool
	known  bool
}

func (h fakeHandle) Closed() (bool, bool) { return h.closed, h.known }

type fakeNavigator struct {
	handle    Handle
	openErr   error
	openPanic bool

	opened   []string
	replaced []string
}

func (n *fakeNavigator) OpenTab(url string) (Handle, error) {
	n.opened = append(n.opened, url)
	if n.openPanic {
		panic("window.open exploded")
	}
	return n.handle, n.openErr
}

func (n *fakeNavigator) Replace(url string) error {
	n.replaced = append(n.replaced, url)
	return nil
}

func newTestOpener(nav *fakeNavigator) (*Opener, *[]time.Duration) {
	var slept []time.Duration
	op := NewOpener(nav, 400*time.Millisecond, nil).WithSleep(func(d time.Duration) {
		slept = append(slept, d)
	})
	return op, &slept
}

const okURL = TrustedChannelPrefix + "51999888777?text=hola"

func TestOpenerRejectsUntrustedScheme(t *testing.T) {
	for _, bad := range []string{
		"whatsapp://send?phone=51999888777",
		"http://wa.me/51999888777",
		"https://evil.example/wa.me/x",
		"javascript:alert(1)",
	} {
		nav := &fakeNavigator{}
		op, _ := newTestOpener(nav)
		_, err := op.Open(bad)
		if _, ok := err.(*errors.ErrUntrustedChannel); !ok {
			t.Errorf("url %q: expected ErrUntrustedChannel, got %v", bad, err)
		}
		if len(nav.opened) != 0 || len(nav.replaced) != 0 {
			t.Errorf("url %q: navigation attempted on untrusted url", bad)
		}
	}
}

func TestOpenerPrimarySucceeds(t *testing.T) {
	nav := &fakeNavigator{handle: fakeHandle{closed: false, known: true}}
	op, slept := newTestOpener(nav)

	out, err := op.Open(okURL)
	if err != nil {
		t.Fatal(err)
	}
	if out.UsedFallback {
		t.Fatal("healthy open must not fall back")
	}
	if len(*slept) != 0 || len(nav.replaced) != 0 {
		t.Fatal("no delay or replace expected on healthy open")
	}
}

func TestOpenerFallbackTriggers(t *testing.T) {
	cases := []struct {
		name string
		nav  *fakeNavigator
	}{
		{"open error", &fakeNavigator{openErr: fmt.Errorf("popup blocked")}},
		{"nil handle", &fakeNavigator{handle: nil}},
		{"handle closed", &fakeNavigator{handle: fakeHandle{closed: true, known: true}}},
		{"closed state unknown", &fakeNavigator{handle: fakeHandle{closed: false, known: false}}},
		{"open panics", &fakeNavigator{openPanic: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, slept := newTestOpener(tc.nav)
			out, err := op.Open(okURL)
			if err != nil {
				t.Fatalf("fallback path must not surface errors, got %v", err)
			}
			if !out.UsedFallback {
				t.Fatal("expected fallback")
			}
			if len(*slept) != 1 || (*slept)[0] != 400*time.Millisecond {
				t.Fatalf("expected one 400ms delay before fallback, got %v", *slept)
			}
			if len(tc.nav.replaced) != 1 || tc.nav.replaced[0] != okURL {
				t.Fatalf("expected replace with same url, got %v", tc.nav.replaced)
			}
		})
	}
}
