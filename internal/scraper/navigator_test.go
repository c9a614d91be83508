package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage stands in for a live page. Title answers come from the titles
// slice, one per call, with the last entry repeating.
type fakePage struct {
	playwright.Page

	titles     []string
	html       string
	gotoErr    error
	gotoCalls  int
	titleCalls int
	clickCalls int
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotoCalls++
	return nil, p.gotoErr
}

func (p *fakePage) Evaluate(expression string, options ...interface{}) (interface{}, error) {
	if strings.Contains(expression, "readyState") {
		return "complete", nil
	}
	p.clickCalls++
	return nil, nil
}

func (p *fakePage) Title() (string, error) {
	idx := p.titleCalls
	if idx >= len(p.titles) {
		idx = len(p.titles) - 1
	}
	p.titleCalls++
	return p.titles[idx], nil
}

func (p *fakePage) Content() (string, error) {
	return p.html, nil
}

func testNavigator() *Navigator {
	n := NewNavigator(time.Millisecond)
	n.challengeWait = 10 * time.Millisecond
	n.challengePoll = 2 * time.Millisecond
	return n
}

func TestNavigateNoChallenge(t *testing.T) {
	page := &fakePage{
		titles: []string{"Now Foods, Vitamin D-3 - iHerb"},
		html:   "<html>product</html>",
	}

	html, err := testNavigator().Navigate(context.Background(), page, "https://www.iherb.com/pr/item/372")
	require.NoError(t, err)
	assert.Equal(t, "<html>product</html>", html)
	assert.Equal(t, 1, page.gotoCalls)
	assert.Zero(t, page.clickCalls)
}

func TestNavigateChallengeClears(t *testing.T) {
	page := &fakePage{
		titles: []string{"Just a moment...", "Now Foods, Vitamin D-3 - iHerb"},
		html:   "<html>product</html>",
	}

	html, err := testNavigator().Navigate(context.Background(), page, "https://www.iherb.com/pr/item/372")
	require.NoError(t, err)
	assert.Equal(t, "<html>product</html>", html)
	assert.Equal(t, 1, page.clickCalls, "one wait round was enough")
}

func TestNavigateChallengeNeverClears(t *testing.T) {
	page := &fakePage{titles: []string{"Just a moment..."}}

	_, err := testNavigator().Navigate(context.Background(), page, "https://www.iherb.com/pr/item/372")

	var blocked *ChallengeBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, 3, blocked.Attempts)
	assert.Equal(t, 2, page.clickCalls, "the third round fails instead of waiting again")
}

func TestNavigateWithRetryExhausted(t *testing.T) {
	page := &fakePage{
		titles:  []string{""},
		gotoErr: errors.New("net::ERR_CONNECTION_RESET"),
	}

	_, err := testNavigator().NavigateWithRetry(context.Background(), page, "https://www.iherb.com", 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "ERR_CONNECTION_RESET")
	assert.Equal(t, 3, page.gotoCalls, "two retries means three attempts")
}

func TestNavigateWithRetrySucceeds(t *testing.T) {
	page := &fakePage{
		titles: []string{"Search - iHerb"},
		html:   "<html>results</html>",
	}

	html, err := testNavigator().NavigateWithRetry(context.Background(), page, "https://www.iherb.com", 2)
	require.NoError(t, err)
	assert.Equal(t, "<html>results</html>", html)
	assert.Equal(t, 1, page.gotoCalls)
}

func TestIsChallengeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected bool
	}{
		{name: "Cloudflare interstitial", title: "Just a moment...", expected: true},
		{name: "Attention required", title: "Attention Required! | Cloudflare", expected: true},
		{name: "Regular product page", title: "Now Foods, Vitamin D-3 - iHerb", expected: false},
		{name: "Empty title", title: "", expected: false},
		{name: "Search page", title: "vitamin d - iHerb Search", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsChallengeTitle(tt.title))
		})
	}
}

func TestChallengeBlockedError(t *testing.T) {
	err := &ChallengeBlockedError{Attempts: 3}
	assert.Equal(t, "anti-bot challenge could not be solved after 3 attempts", err.Error())
}
