package booking

import (
	"fmt"
	"strconv"
	"strings"

	"trinhnail/models"
	"trinhnail/services/i18n"
)

// Business hours in minutes after midnight. The store closes at midnight;
// slots from lateStart until close need a reservation in advance.
const (
	openAt    = 9 * 60
	lateStart = 20 * 60
	closeAt   = 24 * 60
)

// ClassifyTime classifies a 24-hour "HH:MM" value. An empty value is unset.
func ClassifyTime(hhmm string) (models.TimeClass, error) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return models.TimeUnset, nil
	}
	mins, err := parseClock(hhmm)
	if err != nil {
		return models.TimeUnset, err
	}
	switch {
	case mins < openAt:
		return models.TimeEarly, nil
	case mins >= lateStart && mins < closeAt:
		return models.TimeLate, nil
	default:
		return models.TimeNormal, nil
	}
}

func parseClock(s string) (int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// TimeHint returns the inline hint shown next to the time field, or "" when unset.
func TimeHint(class models.TimeClass, t i18n.Translator, lang i18n.Lang) string {
	switch class {
	case models.TimeEarly:
		return t.Translate("msg_warn_early", lang)
	case models.TimeLate:
		return t.Translate("msg_warn_late", lang)
	case models.TimeNormal:
		return t.Translate("msg_ok", lang)
	}
	return ""
}
