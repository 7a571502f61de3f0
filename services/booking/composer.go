// Package booking turns a booking draft into the text a visitor copies into
// LINE. Nothing here is sent or stored.
package booking

import (
	"strconv"
	"strings"

	"trinhnail/models"
	"trinhnail/services/i18n"

	mapset "github.com/deckarep/golang-set/v2"
)

// warningMarker is appended to the time line for early and late slots.
const warningMarker = "⚠️"

// Generate validates the draft and assembles the booking message.
func Generate(draft models.BookingDraft, class models.TimeClass, t i18n.Translator, lang i18n.Lang) (string, error) {
	if err := validate(draft); err != nil {
		return "", err
	}

	branch, ok := lookup(BranchOptions, draft.Branch)
	if !ok {
		return "", missing("branch")
	}

	services, err := serviceLabels(draft.Services, t, lang)
	if err != nil {
		return "", err
	}

	timeLine := t.Translate("msg_time", lang) + " " + draft.Date + " " + draft.Time
	if class.NeedsWarning() {
		timeLine += " " + warningMarker
	}

	var imgHint string
	if n := clampImages(draft.ImageCount); n > 0 {
		imgHint = t.Translate("msg_img", lang) + " " + strconv.Itoa(n) + t.Translate("msg_img_count", lang)
	} else {
		imgHint = t.Translate("msg_img", lang) + " " + t.Translate("msg_none", lang)
	}

	lines := []string{
		t.Translate("msg_greeting", lang),
		"",
		t.Translate("msg_name", lang) + " " + draft.Name + " / " + draft.Phone,
		t.Translate("msg_loc", lang) + " " + t.Translate(branch.LabelKey, lang),
		timeLine,
		t.Translate("msg_srv", lang) + " " + strings.Join(services, ", "),
		t.Translate("msg_bd", lang) + " " + optionLabel(BirthdayOptions, draft.Birthday, t, lang),
		t.Translate("msg_matte", lang) + " " + optionLabel(MatteOptions, draft.Matte, t, lang),
	}
	if style := strings.TrimSpace(draft.Style); style != "" {
		lines = append(lines, t.Translate("msg_style", lang)+" "+style)
	}
	lines = append(lines, imgHint)
	if note := strings.TrimSpace(draft.Note); note != "" {
		lines = append(lines, t.Translate("msg_note", lang)+" "+note)
	}
	lines = append(lines, "", t.Translate("msg_footer", lang))

	return strings.Join(lines, "\n"), nil
}

// Compose classifies the draft's time and generates the message in one step.
func Compose(draft models.BookingDraft, t i18n.Translator, lang i18n.Lang) (string, models.TimeClass, error) {
	class, err := ClassifyTime(draft.Time)
	if err != nil {
		return "", models.TimeUnset, missing("time")
	}
	msg, err := Generate(draft, class, t, lang)
	return msg, class, err
}

func validate(d models.BookingDraft) error {
	required := []struct {
		field, value string
	}{
		{"name", d.Name},
		{"phone", d.Phone},
		{"branch", d.Branch},
		{"date", d.Date},
		{"time", d.Time},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return missing(r.field)
		}
	}
	if len(d.Services) == 0 {
		return &ValidationError{Kind: NoService, Field: "services"}
	}
	return nil
}

// serviceLabels resolves the selected services in selection order, dropping repeats.
func serviceLabels(selected []string, t i18n.Translator, lang i18n.Lang) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	labels := make([]string, 0, len(selected))
	for _, v := range selected {
		if !seen.Add(v) {
			continue
		}
		opt, ok := lookup(ServiceOptions, v)
		if !ok {
			return nil, missing("services")
		}
		labels = append(labels, t.Translate(opt.LabelKey, lang))
	}
	return labels, nil
}

// optionLabel resolves an option value; empty means the first option and
// unknown values are passed through as free text.
func optionLabel(opts []Option, value string, t i18n.Translator, lang i18n.Lang) string {
	if value == "" {
		return t.Translate(opts[0].LabelKey, lang)
	}
	if o, ok := lookup(opts, value); ok {
		return t.Translate(o.LabelKey, lang)
	}
	return value
}

func clampImages(n int) int {
	if n < 0 {
		return 0
	}
	if n > models.MaxBookingImages {
		return models.MaxBookingImages
	}
	return n
}
