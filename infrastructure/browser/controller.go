package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

const browserStateFile = "browser_state.json"

// Options configures a live browser
type Options struct {
	Headless bool
	// StateDir keeps cookies and local storage between runs; empty disables it.
	StateDir string
	// DriverPath is the chromedriver binary (selenium only).
	DriverPath string
	// BinaryPath overrides the Chrome binary (selenium only).
	BinaryPath string
	Port       int
}

type browserController struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	page        playwright.Page
	context     playwright.BrowserContext
	storagePath string
	pages       []playwright.Page
	pagesMutex  sync.Mutex
	logger      *logrus.Logger
}

// NewBrowserController - launches Chromium through playwright
func NewBrowserController(opts Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	var storagePath string
	if opts.StateDir != "" {
		if err := os.MkdirAll(opts.StateDir, 0755); err != nil {
			pw.Stop()
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		storagePath = filepath.Join(opts.StateDir, browserStateFile)
		if data, err := os.ReadFile(storagePath); err == nil {
			var storageState playwright.StorageState
			if err := json.Unmarshal(data, &storageState); err == nil {
				contextOptions.StorageState = storageState.ToOptionalStorageState()
			} else {
				logger.Warnf("browser: ignoring unreadable state %s: %v", storagePath, err)
			}
		}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	controller := &browserController{
		pw:          pw,
		browser:     browser,
		page:        page,
		context:     context,
		storagePath: storagePath,
		pages:       []playwright.Page{page},
		logger:      logger,
	}

	// popups opened by a recorded click become the page we record on
	context.OnPage(func(newPage playwright.Page) {
		controller.pagesMutex.Lock()
		defer controller.pagesMutex.Unlock()

		controller.pages = append(controller.pages, newPage)
		controller.page = newPage
		logger.Infof("browser: switched to new page %s", newPage.URL())

		newPage.OnClose(func(closedPage playwright.Page) {
			controller.pagesMutex.Lock()
			defer controller.pagesMutex.Unlock()

			for i, p := range controller.pages {
				if p == closedPage {
					controller.pages = append(controller.pages[:i], controller.pages[i+1:]...)
					break
				}
			}

			if controller.page == closedPage && len(controller.pages) > 0 {
				controller.page = controller.pages[0]
			}
		})
	})

	return controller, nil
}

func (b *browserController) currentPage() playwright.Page {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()
	return b.page
}

// Navigate - navigates to the specified URL
func (b *browserController) Navigate(ctx context.Context, url string) error {
	_, err := b.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// locate - waits for the first element matching selector to be visible.
// Playwright understands :has-text natively.
func (b *browserController) locate(selector string) (playwright.Locator, error) {
	locator := b.currentPage().Locator(selector).First()

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		return nil, fmt.Errorf("element not found or not visible: %w", err)
	}
	return locator, nil
}

// Click - clicks on an element by selector
func (b *browserController) Click(ctx context.Context, selector string) error {
	locator, err := b.locate(selector)
	if err != nil {
		return err
	}
	if err := locator.Click(); err != nil {
		return err
	}

	b.currentPage().WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(5000),
	})
	return nil
}

// TypeText - fills an input field, or picks an option of a <select>
func (b *browserController) TypeText(ctx context.Context, selector string, text string) error {
	locator, err := b.locate(selector)
	if err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}

	tag, err := locator.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err == nil && tag == "select" {
		_, err := locator.SelectOption(playwright.SelectOptionValues{Labels: &[]string{text}})
		return err
	}

	locator.Clear()
	return locator.Fill(text)
}

// PageSource - returns the serialized DOM of the current page
func (b *browserController) PageSource(ctx context.Context) (string, error) {
	page := b.currentPage()
	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(3000),
	})

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// GetCurrentURL - returns the current page URL
func (b *browserController) GetCurrentURL(ctx context.Context) (string, error) {
	return b.currentPage().URL(), nil
}

// GetPageTitle - returns the current page title
func (b *browserController) GetPageTitle(ctx context.Context) (string, error) {
	return b.currentPage().Title()
}

// ElementBounds - returns the bounding box of the first matching element
func (b *browserController) ElementBounds(ctx context.Context, selector string) (entities.Rect, error) {
	box, err := b.currentPage().Locator(selector).First().BoundingBox()
	if err != nil {
		return entities.Rect{}, fmt.Errorf("failed to get bounds: %w", err)
	}
	if box == nil {
		return entities.Rect{}, fmt.Errorf("element %s is not rendered", selector)
	}
	return entities.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

// SaveState - saves cookies and storage for the next run
func (b *browserController) SaveState() error {
	if b.context == nil || b.storagePath == "" {
		return nil
	}

	if _, err := b.context.StorageState(b.storagePath); err != nil {
		if isClosedErr(err) {
			return nil
		}
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - saves state and closes the browser
func (b *browserController) Close() error {
	var errs []string

	if err := b.SaveState(); err != nil {
		errs = append(errs, err.Error())
	}

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Sprintf("failed to close context: %v", err))
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Sprintf("failed to close browser: %v", err))
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to stop playwright: %v", err))
		}
		b.pw = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

var _ interfaces.BrowserController = (*browserController)(nil)
