// Package i18n holds the message catalogue. Messages are looked up by
// upper-case keys; a key with no translation is returned unchanged.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/leonelquinteros/gotext"
)

// DefaultLocale is loaded on first use when Load was never called.
const DefaultLocale = "en"

// ErrUnknownLocale is returned by Load for a locale with no catalogue.
var ErrUnknownLocale = errors.New("unknown locale")

//go:embed locales/*.po
var catalogues embed.FS

var (
	mu      sync.RWMutex
	current *gotext.Po
	locale  string
)

// Load switches the active catalogue.
func Load(name string) error {
	buf, err := catalogues.ReadFile("locales/" + name + ".po")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownLocale, name)
	}

	po := gotext.NewPo()
	po.Parse(buf)

	mu.Lock()
	defer mu.Unlock()
	current, locale = po, name
	return nil
}

// Locale returns the name of the active catalogue.
func Locale() string {
	mu.RLock()
	defer mu.RUnlock()
	return locale
}

// T translates key.
func T(key string) string {
	mu.RLock()
	po := current
	mu.RUnlock()

	if po == nil {
		if err := Load(DefaultLocale); err != nil {
			return key
		}
		return T(key)
	}
	return po.Get(key)
}

// Tf translates key and fills its directives from vars.
func Tf(key string, vars ...any) string {
	return fmt.Sprintf(T(key), vars...)
}
