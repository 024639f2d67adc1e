package entities

// PageType represents a page archetype
type PageType string

const (
	PageLoginForm        PageType = "login-form"
	PageRegistrationForm PageType = "registration-form"
	PageContactForm      PageType = "contact-form"
	PageSearch           PageType = "search"
	PageTable            PageType = "table"
	PageList             PageType = "list"
	PageDetail           PageType = "detail"
	PageGeneric          PageType = "generic"
)

// PageFeatures is the structural feature vector of a document
type PageFeatures struct {
	HasPasswordField    bool `json:"has_password_field"`
	HasEmailField       bool `json:"has_email_field"`
	HasUsernameField    bool `json:"has_username_field"`
	HasConfirmPassword  bool `json:"has_confirm_password"`
	HasSearchInput      bool `json:"has_search_input"`
	HasResultsContainer bool `json:"has_results_container"`
	HasTable            bool `json:"has_table"`
	HasList             bool `json:"has_list"`
	HasTextarea         bool `json:"has_textarea"`
	HasSingleH1         bool `json:"has_single_h1"`
	HasMainContent      bool `json:"has_main_content"`
	HasImages           bool `json:"has_images"`
	FormFieldCount      int  `json:"form_field_count"`
}

// AssertionTemplate is a suggested assertion. Code is inert text.
type AssertionTemplate struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// ClassificationResult represents the archetype chosen for a page
type ClassificationResult struct {
	PageType            PageType            `json:"page_type"`
	Confidence          int                 `json:"confidence"`
	Features            PageFeatures        `json:"features"`
	SuggestedAssertions []AssertionTemplate `json:"suggested_assertions"`
}
