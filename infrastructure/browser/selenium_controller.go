package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"action_recorder/application/selector"
	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const defaultDriverPort = 9515

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - starts chromedriver and opens a Chrome session
func NewSeleniumController(opts Options, logger *logrus.Logger) (*SeleniumController, error) {
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	port := opts.Port
	if port == 0 {
		port = defaultDriverPort
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	args := []string{
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	if opts.StateDir != "" {
		profile := filepath.Join(opts.StateDir, "chrome_profile")
		if err := os.MkdirAll(profile, 0755); err != nil {
			service.Stop()
			return nil, fmt.Errorf("failed to create user data directory: %w", err)
		}
		args = append(args, fmt.Sprintf("--user-data-dir=%s", profile))
	}

	chromeCaps := chrome.Capabilities{Args: args}
	if chromeBinary := findChromeBinary(opts.BinaryPath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

// Click - clicks on element identified by selector
func (s *SeleniumController) Click(ctx context.Context, sel string) error {
	element, err := s.findElement(sel)
	if err != nil {
		return err
	}

	// Scroll element into view using JavaScript for better reliability
	script := `arguments[0].scrollIntoView({ block: 'center' }); return true;`
	if _, err := s.wd.ExecuteScript(script, []interface{}{element}); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
		if err := element.MoveTo(0, 0); err != nil {
			s.logger.Warnf("Failed to move to element: %v", err)
		}
	}

	return element.Click()
}

// TypeText - types text into input field identified by selector
func (s *SeleniumController) TypeText(ctx context.Context, sel string, text string) error {
	element, err := s.findElement(sel)
	if err != nil {
		return err
	}

	if err := element.Clear(); err != nil {
		s.logger.Warnf("Failed to clear element: %v", err)
	}

	for _, char := range text {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := element.SendKeys(string(char)); err != nil {
			return fmt.Errorf("failed to type character: %w", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	return nil
}

// PageSource - returns the serialized DOM of the current page
func (s *SeleniumController) PageSource(ctx context.Context) (string, error) {
	source, err := s.wd.PageSource()
	if err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return source, nil
}

// GetCurrentURL - returns current page URL
func (s *SeleniumController) GetCurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

// GetPageTitle - returns current page title
func (s *SeleniumController) GetPageTitle(ctx context.Context) (string, error) {
	return s.wd.Title()
}

// ElementBounds - returns location and size of the first matching element
func (s *SeleniumController) ElementBounds(ctx context.Context, sel string) (entities.Rect, error) {
	element, err := s.findElement(sel)
	if err != nil {
		return entities.Rect{}, err
	}
	loc, err := element.Location()
	if err != nil {
		return entities.Rect{}, fmt.Errorf("failed to get location: %w", err)
	}
	size, err := element.Size()
	if err != nil {
		return entities.Rect{}, fmt.Errorf("failed to get size: %w", err)
	}
	return entities.Rect{
		X:      float64(loc.X),
		Y:      float64(loc.Y),
		Width:  float64(size.Width),
		Height: float64(size.Height),
	}, nil
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	if s.wd != nil {
		s.wd.Quit()
	}
	if s.service != nil {
		return s.service.Stop()
	}
	return nil
}

// findElement - resolves a CSS selector. WebDriver has no :has-text, so the
// base selector is queried and candidates are filtered by visible text.
func (s *SeleniumController) findElement(sel string) (selenium.WebElement, error) {
	base, text, ok := selector.SplitHasText(sel)
	if !ok {
		element, err := s.wd.FindElement(selenium.ByCSSSelector, sel)
		if err != nil {
			return nil, fmt.Errorf("element not found with selector %s: %w", sel, err)
		}
		return element, nil
	}

	candidates, err := s.wd.FindElements(selenium.ByCSSSelector, base)
	if err != nil {
		return nil, fmt.Errorf("element not found with selector %s: %w", sel, err)
	}
	for _, candidate := range candidates {
		visible, err := candidate.Text()
		if err != nil {
			continue
		}
		if textMatches(visible, text) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("element not found with selector: %s", sel)
}

// textMatches - case-insensitive containment on whitespace-normalized text
func textMatches(haystack, needle string) bool {
	h := strings.ToLower(strings.Join(strings.Fields(haystack), " "))
	n := strings.ToLower(strings.Join(strings.Fields(needle), " "))
	return strings.Contains(h, n)
}

var _ interfaces.BrowserController = (*SeleniumController)(nil)
