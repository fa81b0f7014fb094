package registrations

import (
	"strings"
	"unicode/utf8"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/models"
)

// maxNameLen bounds the applicant name, counted in runes to match the
// platform-side column constraint.
const maxNameLen = 100

// Form carries the seven registration fields as submitted.
type Form struct {
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Hometown      string               `json:"hometown"`
	Campus        models.Campus        `json:"campus"`
	JapaneseLevel models.JapaneseLevel `json:"japanese_level"`
	Motivation    models.Motivation    `json:"japanese_motivation"`
	EnglishLevel  models.EnglishLevel  `json:"english_level"`
}

// FieldError reports the first failing field with a localized message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace on the free-text fields. Applied
// before validation so " " does not pass the non-empty checks.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Hometown = strings.TrimSpace(f.Hometown)
}

// Validate checks the fields in their fixed order and reports only the first
// failure: name, phone, hometown, campus, japanese_level, japanese_motivation,
// english_level. Advisory only: the platform routine is the authority.
func (f Form) Validate(lang i18n.Lang) *FieldError {
	if f.Name == "" {
		return &FieldError{Field: "name", Message: i18n.T(lang, i18n.MsgNameRequired)}
	}
	if utf8.RuneCountInString(f.Name) > maxNameLen {
		return &FieldError{Field: "name", Message: i18n.T(lang, i18n.MsgNameTooLong)}
	}
	if f.Phone == "" {
		return &FieldError{Field: "phone", Message: i18n.T(lang, i18n.MsgPhoneRequired)}
	}
	if f.Hometown == "" {
		return &FieldError{Field: "hometown", Message: i18n.T(lang, i18n.MsgHometownRequired)}
	}
	if !f.Campus.Valid() {
		return &FieldError{Field: "campus", Message: i18n.T(lang, i18n.MsgCampusRequired)}
	}
	if !f.JapaneseLevel.Valid() {
		return &FieldError{Field: "japanese_level", Message: i18n.T(lang, i18n.MsgJapaneseRequired)}
	}
	if !f.Motivation.Valid() {
		return &FieldError{Field: "japanese_motivation", Message: i18n.T(lang, i18n.MsgMotivationRequired)}
	}
	if !f.EnglishLevel.Valid() {
		return &FieldError{Field: "english_level", Message: i18n.T(lang, i18n.MsgEnglishRequired)}
	}
	return nil
}
