package rod

import (
	"fmt"
	"sync"

	"github.com/dashkite/unfurl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages rendered before the
// browser is relaunched.
const DefaultMaxPages = 75

// browser owns a headless Chrome process and relaunches it after maxPages
// pages, since Chrome memory grows under sustained load.
type browser struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
}

func launchBrowser(maxPages int) (*browser, error) {
	b := &browser{maxPages: maxPages}
	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the current browser, relaunching it first when the page
// budget is spent. A failed relaunch keeps the old browser.
func (b *browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil, unfurl.Errorf(unfurl.EINVALID, "fetcher is closed")
	}

	if b.maxPages > 0 && b.pages >= b.maxPages {
		oldBrowser, oldLauncher := b.browser, b.launcher
		if err := b.launch(); err != nil {
			b.browser, b.launcher = oldBrowser, oldLauncher
		} else {
			_ = oldBrowser.Close()
			oldLauncher.Kill()
			b.pages = 0
		}
	}

	b.pages++
	return b.browser, nil
}

func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	rb := rod.New().ControlURL(u)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = rb
	b.launcher = l
	return nil
}

// close shuts down the browser and its process. It is safe to call twice.
func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}
