package interfaces

import (
	"action_recorder/domain/entities"
	"context"
)

// BrowserController defines the interface for a live browser page
type BrowserController interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Click clicks on an element by selector
	Click(ctx context.Context, selector string) error

	// TypeText types text into an element
	TypeText(ctx context.Context, selector string, text string) error

	// PageSource returns the serialized current DOM
	PageSource(ctx context.Context) (string, error)

	// GetCurrentURL returns the current page URL
	GetCurrentURL(ctx context.Context) (string, error)

	// GetPageTitle returns the current page title
	GetPageTitle(ctx context.Context) (string, error)

	// ElementBounds returns the bounding box of the first matching element
	ElementBounds(ctx context.Context, selector string) (entities.Rect, error)

	// Close closes the browser
	Close() error
}
