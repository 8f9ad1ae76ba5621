package cssaudit

import (
	"regexp"
	"strings"
)

var (
	pseudoElementPattern = regexp.MustCompile(`::[\w-]+`)
	notPattern           = regexp.MustCompile(`:not\([^)]+\)`)
	themeAttrPattern     = regexp.MustCompile(`\[data-theme[^\]]*\]`)

	idPattern        = regexp.MustCompile(`#[\w-]+`)
	classPattern     = regexp.MustCompile(`\.[\w-]+`)
	attributePattern = regexp.MustCompile(`\[[^\]]+\]`)
	pseudoPattern    = regexp.MustCompile(`:[\w-]+`)
	elementPattern   = regexp.MustCompile(`(?i)(?:^|[\s>+~])[a-z][\w-]*`)
	keywordPattern   = regexp.MustCompile(`(?i)^(and|or|not)$`)
)

// CalculateSpecificity computes the specificity of a single selector.
//
// The count is textual, not a full selector-grammar evaluation:
//  1. pseudo-elements (::before) are dropped
//  2. :not(...) arguments are dropped, :not itself counts once
//  3. [data-theme...] is treated as one class (.theme-selector)
//  4. ids are #name, classes are .name + [attr] + :pseudo, elements are
//     tag names at the start or after a combinator
func CalculateSpecificity(selector string) Specificity {
	s := pseudoElementPattern.ReplaceAllString(selector, "")
	s = notPattern.ReplaceAllString(s, ":not()")
	s = themeAttrPattern.ReplaceAllString(s, ".theme-selector")

	spec := Specificity{
		IDs: len(idPattern.FindAllString(s, -1)),
		Classes: len(classPattern.FindAllString(s, -1)) +
			len(attributePattern.FindAllString(s, -1)) +
			len(pseudoPattern.FindAllString(s, -1)),
	}

	for _, m := range elementPattern.FindAllString(s, -1) {
		if !keywordPattern.MatchString(strings.TrimSpace(m)) {
			spec.Elements++
		}
	}

	return spec
}
