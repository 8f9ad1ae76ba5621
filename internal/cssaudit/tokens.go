package cssaudit

import "strings"

// DefaultTokenAllowlist holds custom properties that are set at runtime by
// scripts and therefore never declared in the token files
var DefaultTokenAllowlist = []string{
	"--animation-delay",
	"--hs-tab-bg",
	"--hs-wave-transform",
	"--parallax-translate",
	"--x",
	"--y",
}

// FindDuplicateTokens reports custom properties declared more than once in
// the same file and selector scope. Redefinition across files or scopes is
// theming and never reported.
func FindDuplicateTokens(files []*Stylesheet) []DuplicateToken {
	var duplicates []DuplicateToken

	type key struct{ scope, name string }

	for _, f := range files {
		lines := make(map[key][]int)
		var order []key

		for _, tok := range f.Tokens {
			k := key{scope: tok.Scope, name: tok.Name}
			if _, seen := lines[k]; !seen {
				order = append(order, k)
			}
			lines[k] = append(lines[k], tok.Line)
		}

		for _, k := range order {
			if len(lines[k]) < 2 {
				continue
			}
			duplicates = append(duplicates, DuplicateToken{
				Token: k.name,
				File:  f.Name(),
				Scope: k.scope,
				Lines: lines[k],
			})
		}
	}

	return duplicates
}

// CanonicalTokens returns the set of custom properties declared in files
// whose first directory under the styles root is tokensDir
func CanonicalTokens(files []*Stylesheet, tokensDir string) map[string]bool {
	canonical := make(map[string]bool)
	for _, f := range files {
		if !isUnderDir(f.Name(), tokensDir) {
			continue
		}
		for _, tok := range f.Tokens {
			canonical[tok.Name] = true
		}
	}
	return canonical
}

// FindUndeclaredReferences reports var() references to custom properties
// that are neither declared in the token files nor allow-listed
func FindUndeclaredReferences(files []*Stylesheet, tokensDir string, allowlist []string) []TokenReference {
	canonical := CanonicalTokens(files, tokensDir)
	allowed := make(map[string]bool, len(allowlist))
	for _, name := range allowlist {
		allowed[name] = true
	}

	var undeclared []TokenReference
	for _, f := range files {
		for _, ref := range f.References {
			if canonical[ref.TokenName] || allowed[ref.TokenName] {
				continue
			}
			undeclared = append(undeclared, ref)
		}
	}
	return undeclared
}

// isUnderDir reports whether a styles-relative slash path starts with dir
func isUnderDir(rel, dir string) bool {
	dir = strings.Trim(toSlash(dir), "/")
	if dir == "" {
		return false
	}
	return strings.HasPrefix(rel, dir+"/")
}
