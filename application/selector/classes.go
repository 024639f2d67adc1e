package selector

import (
	"sort"
	"strings"
)

// utilityPrefixes mark atomic utility classes (Bootstrap, Tailwind). They
// carry a hyphen but say nothing about what the element is.
var utilityPrefixes = []string{
	"align-", "bg-", "border-", "col-", "d-", "flex-", "float-", "font-",
	"g-", "gap-", "h-", "items-", "justify-", "m-", "mb-", "me-", "ml-",
	"mr-", "ms-", "mt-", "mx-", "my-", "p-", "pb-", "pe-", "pl-", "pr-",
	"ps-", "pt-", "px-", "py-", "rounded-", "row-", "shadow-", "text-",
	"w-",
}

func isUtilityClass(class string) bool {
	for _, p := range utilityPrefixes {
		if strings.HasPrefix(class, p) {
			return true
		}
	}
	return false
}

// stableClasses drops excluded classes and ranks the rest: hyphenated
// non-utility classes first, then longer names. Equal ranks keep source
// order.
func (s *Synthesizer) stableClasses(classes []string) []string {
	seen := make(map[string]bool, len(classes))
	stable := make([]string, 0, len(classes))
	for _, c := range classes {
		if c == "" || seen[c] || s.filter.excluded(c) {
			continue
		}
		seen[c] = true
		stable = append(stable, c)
	}

	specific := func(c string) bool {
		return strings.Contains(c, "-") && !isUtilityClass(c)
	}
	sort.SliceStable(stable, func(i, j int) bool {
		si, sj := specific(stable[i]), specific(stable[j])
		if si != sj {
			return si
		}
		return len(stable[i]) > len(stable[j])
	})
	return stable
}

// classCombinations returns tag.a, then tag.a.b, then tag.a.b.c over the
// ranked classes, up to maxSize classes per selector
func classCombinations(tag string, classes []string, maxSize int) []string {
	var out []string
	for size := 1; size <= maxSize && size <= len(classes); size++ {
		combine(classes, size, func(picked []string) {
			var sb strings.Builder
			sb.WriteString(tag)
			for _, c := range picked {
				sb.WriteByte('.')
				sb.WriteString(escapeIdent(c))
			}
			out = append(out, sb.String())
		})
	}
	return out
}

// combine calls fn for every size-k combination of items in index order
func combine(items []string, k int, fn func([]string)) {
	picked := make([]string, 0, k)
	var rec func(start int)
	rec = func(start int) {
		if len(picked) == k {
			fn(picked)
			return
		}
		for i := start; i <= len(items)-(k-len(picked)); i++ {
			picked = append(picked, items[i])
			rec(i + 1)
			picked = picked[:len(picked)-1]
		}
	}
	rec(0)
}
