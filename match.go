package memfs

import "github.com/bmatcuk/doublestar/v4"

// MatchGlob builds a PathFilter from a doublestar glob pattern (supporting
// "**" recursive segments), matched against a Path's displayed string. This
// is a thin convenience, not a general glob-to-regex matcher framework:
// patterns are validated once at construction and any malformed pattern
// makes every subsequent match fail closed rather than panic.
func MatchGlob(pattern string) PathFilter {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return func(Path) bool { return false }
	}
	return func(p Path) bool {
		ok, err := doublestar.Match(pattern, p.String())
		return err == nil && ok
	}
}
