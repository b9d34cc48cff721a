//Package locale maps feedback tokens to display strings
package locale

import (
	"fmt"
	"strings"

	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/chenBenjamin97/football-coach/pkg/video"
)

type table struct {
	tokens map[video.Token]string
	or     string //word used to join several tokens
}

var tables = map[string]table{
	"en": {
		tokens: map[video.Token]string{
			video.NoPlayersFree:     "No players free, keep the ball",
			video.PassLeft:          "pass left",
			video.PassRight:         "pass right",
			video.PassForward:       "pass forwards",
			video.PassSlightlyLeft:  "pass slightly left",
			video.PassSlightlyRight: "pass slightly right",
		},
		or: " or ",
	},
	"ar": {
		tokens: map[video.Token]string{
			video.NoPlayersFree:     "لا يوجد لاعب حر، احتفظ بالكرة",
			video.PassLeft:          "مرر إلى اليسار",
			video.PassRight:         "مرر إلى اليمين",
			video.PassForward:       "مرر إلى الأمام",
			video.PassSlightlyLeft:  "مرر قليلاً إلى اليسار",
			video.PassSlightlyRight: "مرر قليلاً إلى اليمين",
		},
		or: " أو ",
	},
}

//Supported returns the list of locale codes having a table
func Supported() []string {
	return []string{"ar", "en"}
}

//Normalize lower-cases code and strips a region suffix ("ar-EG" -> "ar")
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if code == "" {
		return utils.DefaultLocale
	}
	return code
}

//Localize joins the display strings of given tokens. For an unknown locale the default locale
//text is returned together with an error wrapping video.ErrUnsupportedLocale, the text is always usable.
func Localize(code string, tokens ...video.Token) (string, error) {
	var err error

	t, ok := tables[Normalize(code)]
	if !ok {
		t = tables[utils.DefaultLocale]
		err = fmt.Errorf("Localize: '%s': %w", code, video.ErrUnsupportedLocale)
	}

	if len(tokens) == 0 {
		tokens = []video.Token{video.NoPlayersFree}
	}

	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		s, ok := t.tokens[tok]
		if !ok {
			s = tables[utils.DefaultLocale].tokens[tok]
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, t.or), err
}
