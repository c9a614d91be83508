package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/iherb-tools/iherb-cli/internal/backoff"
)

const (
	maxChallengeRounds   = 3
	defaultChallengeWait = 12 * time.Second
	defaultChallengePoll = time.Second
	readyPollInterval    = 500 * time.Millisecond
	readyTimeout         = 10 * time.Second
	gotoTimeout          = 30 * time.Second
)

// turnstileClickScript tries to tick the challenge checkbox. The iframe is
// usually cross-origin, so the click may silently do nothing; that is fine.
const turnstileClickScript = `
try {
    const iframe = document.querySelector('iframe[src*="challenges"]');
    if (iframe && iframe.contentDocument) {
        const checkbox = iframe.contentDocument.querySelector('input[type="checkbox"]');
        if (checkbox) checkbox.click();
    }
} catch(e) {}
`

// Navigator turns a URL into settled HTML, waiting out the anti-bot
// interstitial and pacing requests to look human.
type Navigator struct {
	delay         time.Duration
	challengeWait time.Duration
	challengePoll time.Duration
	logger        *slog.Logger
}

func NewNavigator(delay time.Duration) *Navigator {
	return &Navigator{
		delay:         delay,
		challengeWait: defaultChallengeWait,
		challengePoll: defaultChallengePoll,
		logger:        slog.Default().With("component", "navigator"),
	}
}

// Navigate runs one attempt of the navigation state machine: load, stabilize,
// then up to three challenge rounds before giving up on the attempt.
func (n *Navigator) Navigate(ctx context.Context, page playwright.Page, url string) (string, error) {
	n.logger.Info("navigating", "url", url)

	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(gotoTimeout.Milliseconds())),
	})
	if err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	// Fixed inter-request pause to avoid rate-based blocking.
	if err := sleepCtx(ctx, n.delay); err != nil {
		return "", err
	}

	// Let client-side rendering finish before interrogating the DOM.
	if !n.documentReady(page) {
		backoff.PollUntil(ctx, readyPollInterval, readyTimeout, func() bool {
			return n.documentReady(page)
		})
	}

	for round := 1; round <= maxChallengeRounds; round++ {
		if !n.challengePresent(page) {
			break
		}
		if round == maxChallengeRounds {
			return "", &ChallengeBlockedError{Attempts: maxChallengeRounds}
		}

		n.logger.Info("challenge detected, waiting",
			"round", round, "max_rounds", maxChallengeRounds, "wait", n.challengeWait)

		// Best effort; a cross-origin failure here is deliberately ignored.
		if _, err := page.Evaluate(turnstileClickScript); err != nil {
			n.logger.Debug("challenge click failed", "error", err)
		}

		if backoff.PollUntil(ctx, n.challengePoll, n.challengeWait, func() bool {
			return !n.challengePresent(page)
		}) {
			n.logger.Info("challenge resolved early")
		}
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}
	return html, nil
}

// NavigateWithRetry retries the whole state machine with exponential backoff.
// Every error is retryable; the last one is surfaced when attempts run out.
func (n *Navigator) NavigateWithRetry(ctx context.Context, page playwright.Page, url string, maxRetries int) (string, error) {
	var html string
	err := backoff.Retry(ctx, maxRetries, n.delay, func(attempt int) error {
		var navErr error
		html, navErr = n.Navigate(ctx, page, url)
		if navErr != nil {
			n.logger.Warn("navigation attempt failed",
				"attempt", attempt, "max_attempts", maxRetries+1, "error", navErr)
		}
		return navErr
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

func (n *Navigator) documentReady(page playwright.Page) bool {
	state, err := page.Evaluate("document.readyState")
	if err != nil {
		return false
	}
	s, _ := state.(string)
	return s == "complete"
}

func (n *Navigator) challengePresent(page playwright.Page) bool {
	title, err := page.Title()
	if err != nil {
		return false
	}
	return IsChallengeTitle(title)
}

// IsChallengeTitle reports whether a page title matches a known anti-bot
// interstitial signature.
func IsChallengeTitle(title string) bool {
	return strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Attention Required")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
