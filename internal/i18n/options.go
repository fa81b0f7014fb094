package i18n

import "github.com/tsunagu-circle/backend/internal/models"

// Option is one selectable value of a registration form field, with both
// display labels. Managed here so the sets change in one place.
type Option struct {
	Value   string `json:"value"`
	LabelJA string `json:"label_ja"`
	LabelEN string `json:"label_en"`
}

// LocalizedOption is an Option reduced to the label for one language.
type LocalizedOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CampusOptions are the fixed campus choices.
var CampusOptions = []Option{
	{string(models.CampusImadegawa), "今出川キャンパス", "Imadegawa Campus"},
	{string(models.CampusKyotanabe), "京田辺キャンパス", "Kyotanabe Campus"},
	{string(models.CampusOther), "その他", "Other"},
}

// JapaneseLevelOptions are the fixed Japanese proficiency choices.
var JapaneseLevelOptions = []Option{
	{string(models.JapaneseNative), "ネイティブ", "Native"},
	{string(models.JapaneseN1), "N1相当", "N1 Level"},
	{string(models.JapaneseN2), "N2相当", "N2 Level"},
	{string(models.JapaneseN3), "N3相当", "N3 Level"},
	{string(models.JapaneseN4), "N4相当", "N4 Level"},
	{string(models.JapaneseN5), "N5相当", "N5 Level"},
	{string(models.JapaneseBeginner), "初心者", "Beginner"},
}

// MotivationOptions are the fixed motivation choices.
var MotivationOptions = []Option{
	{string(models.MotivationImprove), "日本語を上達させたい", "I want to improve my Japanese"},
	{string(models.MotivationFriends), "日本人の友達を作りたい", "I want to make Japanese friends"},
	{string(models.MotivationCulture), "日本文化に興味がある", "I'm interested in Japanese culture"},
	{string(models.MotivationFun), "楽しそうだから", "It looks fun"},
	{string(models.MotivationOther), "その他", "Other"},
}

// EnglishLevelOptions are the fixed English proficiency choices.
var EnglishLevelOptions = []Option{
	{string(models.EnglishNative), "ネイティブ", "Native"},
	{string(models.EnglishAdvanced), "上級", "Advanced"},
	{string(models.EnglishIntermediate), "中級", "Intermediate"},
	{string(models.EnglishBeginner), "初級", "Beginner"},
	{string(models.EnglishNone), "ほとんど話せない", "Almost none"},
}

// Localize reduces an option set to one language's labels.
func Localize(lang Lang, opts []Option) []LocalizedOption {
	out := make([]LocalizedOption, len(opts))
	for i, o := range opts {
		label := o.LabelEN
		if lang.IsJA() {
			label = o.LabelJA
		}
		out[i] = LocalizedOption{Value: o.Value, Label: label}
	}
	return out
}

// FormOptions groups every localized option set for the registration form.
type FormOptions struct {
	Campus        []LocalizedOption `json:"campus"`
	JapaneseLevel []LocalizedOption `json:"japanese_level"`
	Motivation    []LocalizedOption `json:"japanese_motivation"`
	EnglishLevel  []LocalizedOption `json:"english_level"`
}

// FormOptionsFor returns all form option sets localized for lang.
func FormOptionsFor(lang Lang) FormOptions {
	return FormOptions{
		Campus:        Localize(lang, CampusOptions),
		JapaneseLevel: Localize(lang, JapaneseLevelOptions),
		Motivation:    Localize(lang, MotivationOptions),
		EnglishLevel:  Localize(lang, EnglishLevelOptions),
	}
}
