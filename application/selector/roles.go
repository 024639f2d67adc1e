package selector

import (
	"strings"

	"action_recorder/domain/interfaces"
)

// implicitRoles maps tag names to their implicit ARIA role. Elements whose
// role depends on attributes (a, img, input, select) are handled in
// implicitRole.
var implicitRoles = map[string]string{
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"dialog":   "dialog",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"li":       "listitem",
	"main":     "main",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"progress": "progressbar",
	"table":    "table",
	"tbody":    "rowgroup",
	"td":       "cell",
	"textarea": "textbox",
	"th":       "columnheader",
	"tr":       "row",
	"ul":       "list",
}

var inputRoles = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"email":    "textbox",
	"image":    "button",
	"number":   "spinbutton",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
	"tel":      "textbox",
	"text":     "textbox",
	"url":      "textbox",
}

// ExplicitOrImplicitRole returns the role attribute, or the implicit role
// derived from the tag and attributes
func ExplicitOrImplicitRole(el interfaces.Element) string {
	if role, ok := el.Attr("role"); ok {
		if role = strings.TrimSpace(role); role != "" {
			// the first token is the effective role
			return strings.Fields(role)[0]
		}
	}
	return implicitRole(el)
}

func implicitRole(el interfaces.Element) string {
	tag := el.TagName()
	switch tag {
	case "a", "area":
		if _, ok := el.Attr("href"); ok {
			return "link"
		}
		return ""
	case "img":
		if alt, ok := el.Attr("alt"); ok && alt == "" {
			return "presentation"
		}
		return "img"
	case "input":
		typ, _ := el.Attr("type")
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ == "" {
			return "textbox"
		}
		return inputRoles[typ]
	case "select":
		if _, ok := el.Attr("multiple"); ok {
			return "listbox"
		}
		return "combobox"
	}
	return implicitRoles[tag]
}

// roleBase returns the CSS selector for the element's role. An explicit role
// attribute selects on the attribute; an implicit role selects on the tag
// shape that produces it.
func roleBase(el interfaces.Element) string {
	if role, ok := el.Attr("role"); ok && strings.TrimSpace(role) != "" {
		return attrSelector("role", role)
	}
	if implicitRole(el) == "" {
		return ""
	}

	tag := el.TagName()
	switch tag {
	case "a", "area":
		return tag + "[href]"
	case "input":
		if typ, ok := el.Attr("type"); ok && typ != "" {
			return tag + attrSelector("type", typ)
		}
	}
	return tag
}
