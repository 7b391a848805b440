package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/webfindlead/leadworker/logger"
)

const chromeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// scrollScript scrolls the given container (or, failing the primary marker,
// the first div holding more than 3 article children) to its bottom.
const scrollScript = `(function(sel) {
	let feed = document.querySelector(sel);
	if (!feed) {
		for (const d of document.querySelectorAll('div')) {
			if (d.querySelectorAll('div[role="article"]').length > 3) { feed = d; break; }
		}
	}
	if (feed) { feed.scrollTop = feed.scrollHeight; return true; }
	return false;
})(%q)`

// ChromeSurface renders a live page in a headless browser so the scroll
// protocol actually surfaces lazily-loaded cards.
type ChromeSurface struct {
	url    string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChromeSurface starts a headless browser tab and navigates it to pageURL.
// The caller must Close the surface when the scan is done.
func NewChromeSurface(parent context.Context, pageURL string, navigateTimeout time.Duration) (*ChromeSurface, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(chromeUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelTab()
		cancelAlloc()
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, navigateTimeout)
	defer cancelNav()

	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		cancel()
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	logger.ForScanner().Debug().Str("url", pageURL).Msg("Chrome surface ready")

	return &ChromeSurface{url: pageURL, ctx: tabCtx, cancel: cancel}, nil
}

// Location returns the page URL the surface was opened on.
func (s *ChromeSurface) Location() string {
	return s.url
}

// Document snapshots the current DOM and parses it.
func (s *ChromeSurface) Document(ctx context.Context) (*goquery.Document, error) {
	var html string
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		cancel()
	}()

	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("snapshot DOM: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ScrollFeed scrolls the results feed to its bottom inside the live page.
func (s *ChromeSurface) ScrollFeed(ctx context.Context, selector string) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		cancel()
	}()

	js := fmt.Sprintf(scrollScript, selector)
	return chromedp.Run(runCtx, chromedp.Evaluate(js, nil))
}

// Close tears down the browser tab.
func (s *ChromeSurface) Close() {
	s.cancel()
}
