// Package translate formats user visible messages for the user's locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	lock    sync.RWMutex
	printer *message.Printer
	tag     language.Tag
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("metal: locale: %v", err)
	}

	SetLanguage(locales...)
}

// SetLanguage selects the best match of the languages for message
// formatting. With no languages, en-US is used.
func SetLanguage(languages ...string) {
	if len(languages) == 0 {
		languages = []string{"en-US"}
	}

	matched := message.MatchLanguage(languages...)

	lock.Lock()
	defer lock.Unlock()

	tag = matched
	printer = message.NewPrinter(matched)
}

// Language returns the language currently used for messages.
func Language() language.Tag {
	lock.RLock()
	defer lock.RUnlock()

	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	lock.RLock()
	defer lock.RUnlock()

	return printer.Sprintf(key, args...)
}
