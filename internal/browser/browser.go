package browser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

const stealthUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var stealthArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-features=IsolateOrigins,site-per-process",
	"--disable-site-isolation-trials",
	"--no-first-run",
	"--no-default-browser-check",
	"--disable-default-apps",
	"--disable-extensions",
	"--disable-popup-blocking",
	"--disable-translate",
	"--disable-background-timer-throttling",
	"--disable-renderer-backgrounding",
	"--disable-backgrounding-occluded-windows",
	"--window-size=1920,1080",
}

// stealthInitScript runs in every page before site scripts and hides the
// usual automation tells.
const stealthInitScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = { runtime: {} };
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
    parameters.name === 'notifications' ?
    Promise.resolve({ state: Notification.permission }) :
    originalQuery(parameters)
);
`

type Options struct {
	// ExecutablePath points at a resolved browser binary. Empty means the
	// playwright-managed Chromium, installed on demand.
	ExecutablePath string
	// Headed runs the browser with a visible window for troubleshooting.
	Headed bool
}

// Session owns one launched browser with a disposable profile directory.
// Lifecycle is strictly launch, use, close.
type Session struct {
	pw         *playwright.Playwright
	context    playwright.BrowserContext
	profileDir string
	logger     *slog.Logger
}

// Launch starts the browser with a unique temporary profile directory so
// concurrent or crashed invocations never fight over a profile lock.
func Launch(opts *Options) (*Session, error) {
	logger := slog.Default().With("component", "browser")

	if opts.ExecutablePath == "" {
		// No local browser found anywhere; fetch the managed one.
		logger.Info("no browser executable configured, installing managed chromium")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("failed to install managed browser: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	profileDir := filepath.Join(os.TempDir(), "iherb-cli-"+uuid.NewString())
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to create profile dir: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:  playwright.Bool(!opts.Headed),
		Args:      stealthArgs,
		UserAgent: playwright.String(stealthUserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	}
	if opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(opts.ExecutablePath)
	}

	context, err := pw.Chromium.LaunchPersistentContext(profileDir, launchOpts)
	if err != nil {
		pw.Stop()
		removeProfileDir(profileDir, logger)
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	if err := context.AddInitScript(playwright.Script{Content: playwright.String(stealthInitScript)}); err != nil {
		logger.Warn("failed to add stealth init script", "error", err)
	}

	return &Session{
		pw:         pw,
		context:    context,
		profileDir: profileDir,
		logger:     logger,
	}, nil
}

// NewPage opens a page with passive observers attached. The observers only
// log; nothing in the main flow blocks on them.
func (s *Session) NewPage() (playwright.Page, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		s.logger.Debug("console", "type", msg.Type(), "text", msg.Text())
	})
	page.OnPageError(func(err error) {
		s.logger.Debug("page error", "error", err)
	})

	return page, nil
}

// Close tears the browser down and removes the temporary profile directory
// with a bounded retry, since the OS may hold file locks briefly after the
// browser process exits. A final cleanup failure is logged, not escalated.
func (s *Session) Close() error {
	var errs []error

	if err := s.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close context: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}

	time.Sleep(500 * time.Millisecond)
	removeProfileDir(s.profileDir, s.logger)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func removeProfileDir(dir string, logger *slog.Logger) {
	for attempt := 1; attempt <= 3; attempt++ {
		err := os.RemoveAll(dir)
		if err == nil {
			return
		}
		if attempt < 3 {
			logger.Debug("profile cleanup failed, retrying", "attempt", attempt, "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		// The profile lives under the temp dir; the OS reclaims it eventually.
		logger.Debug("could not remove profile dir", "dir", dir, "error", err)
	}
}

// Launcher creates exactly one session, lazily, and shares it for the rest of
// the invocation.
type Launcher struct {
	mu      sync.Mutex
	opts    *Options
	session *Session
}

func NewLauncher(opts *Options) *Launcher {
	return &Launcher{opts: opts}
}

// Get returns the shared session, launching it on first use.
func (l *Launcher) Get() (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session == nil {
		session, err := Launch(l.opts)
		if err != nil {
			return nil, err
		}
		l.session = session
	}
	return l.session, nil
}

// Close tears down the session if one was ever launched.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session == nil {
		return nil
	}
	err := l.session.Close()
	l.session = nil
	return err
}
