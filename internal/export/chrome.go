package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultTimeout = 30 * time.Second

// Printer turns a rendered HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, document []byte) ([]byte, error)
}

// Chrome prints through a shared headless browser allocator. Each print
// opens its own tab.
type Chrome struct {
	allocator context.Context
	cancel    context.CancelFunc
	logger    *log.Logger
	timeout   time.Duration
}

// NewChrome starts the browser allocator. The browser process itself is
// launched lazily by the first print.
func NewChrome(logger *log.Logger, timeout time.Duration) *Chrome {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-extensions", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Chrome{
		allocator: allocCtx,
		cancel:    cancel,
		logger:    logger,
		timeout:   timeout,
	}
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// PrintPDF loads document into a blank tab with print media emulated and
// prints it with backgrounds.
func (c *Chrome) PrintPDF(ctx context.Context, document []byte) ([]byte, error) {
	if len(document) == 0 {
		return nil, errors.New("print pdf: empty document")
	}
	taskCtx, cancelBrowser := chromedp.NewContext(c.allocator)
	defer cancelBrowser()

	if ctx != nil {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithCancel(taskCtx)
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-taskCtx.Done():
			}
		}()
		defer cancel()
	}
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()

	started := time.Now()
	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(document)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetEmulatedMedia().WithMedia("print").Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	c.logger.Printf("EXPORT printed %d bytes -> %d bytes pdf in %s", len(document), len(pdf), time.Since(started).Round(time.Millisecond))
	return pdf, nil
}
