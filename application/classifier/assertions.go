package classifier

import "action_recorder/domain/entities"

var accessibilityAssertion = entities.AssertionTemplate{
	Type:        "accessibility",
	Description: "Page has no critical accessibility violations",
	Code:        "const results = await new AxeBuilder({ page }).analyze();\nexpect(results.violations).toEqual([]);",
}

var assertionsByType = map[entities.PageType][]entities.AssertionTemplate{
	entities.PageLoginForm: {
		{Type: "visible", Description: "Password field is visible", Code: `await expect(page.locator('input[type="password"]')).toBeVisible();`},
		{Type: "visible", Description: "Submit button is visible", Code: `await expect(page.locator('button[type="submit"], input[type="submit"]')).toBeVisible();`},
		{Type: "url", Description: "Successful login leaves the login page", Code: `await expect(page).not.toHaveURL(/login|signin/);`},
	},
	entities.PageRegistrationForm: {
		{Type: "count", Description: "Form has password and confirmation fields", Code: `await expect(page.locator('input[type="password"]')).toHaveCount(2);`},
		{Type: "visible", Description: "Submit button is visible", Code: `await expect(page.locator('button[type="submit"], input[type="submit"]')).toBeVisible();`},
		{Type: "text", Description: "Mismatched passwords show a validation message", Code: `await expect(page.locator('[role="alert"], .error')).toBeVisible();`},
	},
	entities.PageContactForm: {
		{Type: "visible", Description: "Email field is visible", Code: `await expect(page.locator('input[type="email"]')).toBeVisible();`},
		{Type: "visible", Description: "Message textarea is visible", Code: `await expect(page.locator('textarea')).toBeVisible();`},
		{Type: "text", Description: "Submitting shows a confirmation", Code: `await expect(page.getByText(/thank you|message sent/i)).toBeVisible();`},
	},
	entities.PageSearch: {
		{Type: "visible", Description: "Search input is visible", Code: `await expect(page.locator('input[type="search"], [role="search"] input')).toBeVisible();`},
		{Type: "count", Description: "Search returns at least one result", Code: `expect(await page.locator('[class*="result"]').count()).toBeGreaterThan(0);`},
		{Type: "url", Description: "Query is reflected in the URL", Code: `await expect(page).toHaveURL(/[?&](q|query|search)=/);`},
	},
	entities.PageTable: {
		{Type: "visible", Description: "Data table is visible", Code: `await expect(page.locator('table')).toBeVisible();`},
		{Type: "count", Description: "Table has header cells", Code: `expect(await page.locator('table th').count()).toBeGreaterThan(0);`},
		{Type: "count", Description: "Table has data rows", Code: `expect(await page.locator('table tbody tr').count()).toBeGreaterThan(0);`},
	},
	entities.PageList: {
		{Type: "count", Description: "List renders multiple items", Code: `expect(await page.locator('ul > li, ol > li, [role="listitem"]').count()).toBeGreaterThan(1);`},
		{Type: "visible", Description: "First list item is visible", Code: `await expect(page.locator('ul > li, ol > li, [role="listitem"]').first()).toBeVisible();`},
	},
	entities.PageDetail: {
		{Type: "visible", Description: "Page heading is visible", Code: `await expect(page.locator('h1')).toBeVisible();`},
		{Type: "visible", Description: "Main content is visible", Code: `await expect(page.locator('main, [role="main"], article')).toBeVisible();`},
		{Type: "title", Description: "Page has a title", Code: `await expect(page).toHaveTitle(/.+/);`},
	},
	entities.PageGeneric: {
		{Type: "title", Description: "Page has a title", Code: `await expect(page).toHaveTitle(/.+/);`},
		{Type: "visible", Description: "Page body is visible", Code: `await expect(page.locator('body')).toBeVisible();`},
	},
}

// SuggestAssertions - returns the assertions for a page type, always ending
// with the accessibility audit
func SuggestAssertions(pageType entities.PageType) []entities.AssertionTemplate {
	base := assertionsByType[pageType]
	out := make([]entities.AssertionTemplate, 0, len(base)+1)
	out = append(out, base...)
	return append(out, accessibilityAssertion)
}
