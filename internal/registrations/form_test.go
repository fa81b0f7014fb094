package registrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/models"
)

func validForm() Form {
	return Form{
		Name:          "Hanako Yamada",
		Phone:         "090-1234-5678",
		Hometown:      "Kyoto",
		Campus:        models.CampusImadegawa,
		JapaneseLevel: models.JapaneseNative,
		Motivation:    models.MotivationFriends,
		EnglishLevel:  models.EnglishIntermediate,
	}
}

func TestFormValidateValid(t *testing.T) {
	f := validForm()
	f.Normalize()
	require.Nil(t, f.Validate(i18n.LangEN))
}

func TestFormValidateFirstFailureOnly(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(f *Form) { f.Name = "" },
			field:   "name",
			message: i18n.MsgNameRequired,
		},
		{
			name:    "whitespace-only name",
			mutate:  func(f *Form) { f.Name = "   " },
			field:   "name",
			message: i18n.MsgNameRequired,
		},
		{
			name:    "name too long",
			mutate:  func(f *Form) { f.Name = strings.Repeat("あ", 101) },
			field:   "name",
			message: i18n.MsgNameTooLong,
		},
		{
			name:    "missing phone",
			mutate:  func(f *Form) { f.Phone = "" },
			field:   "phone",
			message: i18n.MsgPhoneRequired,
		},
		{
			name:    "missing hometown",
			mutate:  func(f *Form) { f.Hometown = "" },
			field:   "hometown",
			message: i18n.MsgHometownRequired,
		},
		{
			name:    "bad campus",
			mutate:  func(f *Form) { f.Campus = "mars" },
			field:   "campus",
			message: i18n.MsgCampusRequired,
		},
		{
			name:    "bad japanese level",
			mutate:  func(f *Form) { f.JapaneseLevel = "n99" },
			field:   "japanese_level",
			message: i18n.MsgJapaneseRequired,
		},
		{
			name:    "bad motivation",
			mutate:  func(f *Form) { f.Motivation = "" },
			field:   "japanese_motivation",
			message: i18n.MsgMotivationRequired,
		},
		{
			name:    "bad english level",
			mutate:  func(f *Form) { f.EnglishLevel = "fluentish" },
			field:   "english_level",
			message: i18n.MsgEnglishRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			f.Normalize()
			fe := f.Validate(i18n.LangEN)
			require.NotNil(t, fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.message, fe.Message)
		})
	}
}

// A phone-only failure must surface phone, not name: the checks run in a
// fixed order and stop at the first miss.
func TestFormValidateOrderSkipsFilledFields(t *testing.T) {
	f := validForm()
	f.Phone = ""
	f.Campus = "nowhere"
	f.Normalize()

	fe := f.Validate(i18n.LangEN)
	require.NotNil(t, fe)
	assert.Equal(t, "phone", fe.Field)
}

func TestFormValidateNameBoundary(t *testing.T) {
	f := validForm()
	f.Name = strings.Repeat("あ", 100)
	require.Nil(t, f.Validate(i18n.LangEN), "exactly 100 runes is allowed")
}

func TestFormValidateJapaneseMessages(t *testing.T) {
	f := validForm()
	f.Name = ""
	fe := f.Validate(i18n.LangJA)
	require.NotNil(t, fe)
	assert.Equal(t, "名前を入力してください", fe.Message)
}

func TestFormNormalizeTrims(t *testing.T) {
	f := Form{Name: "  Taro  ", Phone: " 080 ", Hometown: "\tOsaka\n"}
	f.Normalize()
	assert.Equal(t, "Taro", f.Name)
	assert.Equal(t, "080", f.Phone)
	assert.Equal(t, "Osaka", f.Hometown)
}
