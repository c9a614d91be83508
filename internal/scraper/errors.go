package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is an expected outcome, not a system failure: the
	// page is an explicit 404 or a templated empty product page.
	ErrProductNotFound = errors.New("product not found")

	ErrNoResults = errors.New("no search results found")

	ErrInvalidIdentifier = errors.New("invalid product identifier")
)

// ChallengeBlockedError reports that the anti-bot interstitial never cleared.
// It is distinct from a navigation failure: the site is reachable but
// actively resisting.
type ChallengeBlockedError struct {
	Attempts int
}

func (e *ChallengeBlockedError) Error() string {
	return fmt.Sprintf("anti-bot challenge could not be solved after %d attempts", e.Attempts)
}
