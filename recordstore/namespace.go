package recordstore

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// namespaceFor derives a cache namespace from the entity type name:
// "BankAccount" becomes "bank_accounts". Pointer and generic notation is
// stripped so the namespace stays a clean prefix for invalidation on any
// backend.
func namespaceFor[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return inflection.Plural(toSnake(name))
}

// toSnake converts s to snake_case with ASCII-aware rules. Punctuation that
// can show up in reflected type names is collapsed to single underscores;
// leaving it in would break prefix invalidation and produce keys external
// backends reject.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := true // suppress a leading separator
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			boundary := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary && !lastUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false

		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
