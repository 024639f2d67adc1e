package selector

import "regexp"

// dynamicIDPatterns match ids that look generated. Such ids are rejected
// even when currently unique.
var dynamicIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^[0-9a-f]{8,}$`),
	regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),
	regexp.MustCompile(`\d{4,}$`),
	regexp.MustCompile(`^:r[0-9a-z]*:$`),      // React useId
	regexp.MustCompile(`^ember\d+$`),
	regexp.MustCompile(`^react-select-\d+`),
	regexp.MustCompile(`^(mui|mat|cdk|ui-id|gwt-uid|ext-gen|yui_|j_idt)[-_]?.*\d+`),
	regexp.MustCompile(`^(radix|headlessui)-`),
	regexp.MustCompile(`^ng-`),
	regexp.MustCompile(`^__`),
}

// hexRun catches hashes embedded after a separator, e.g. "btn-3f9a2c1d"
var hexRun = regexp.MustCompile(`(?i)[-_:][0-9a-f]{6,}$`)
var digit = regexp.MustCompile(`\d`)

// isDynamicID reports whether an id looks framework- or build-generated
func isDynamicID(id string) bool {
	for _, re := range dynamicIDPatterns {
		if re.MatchString(id) {
			return true
		}
	}
	if m := hexRun.FindString(id); m != "" && digit.MatchString(m) {
		return true
	}
	return false
}
