package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the catalog key, so the English
// catalog below maps each key to itself.
const (
	MsgNameRequired       = "Please enter your name"
	MsgNameTooLong        = "Name must be 100 characters or less"
	MsgPhoneRequired      = "Please enter your phone number"
	MsgHometownRequired   = "Please enter your hometown"
	MsgCampusRequired     = "Please select a campus"
	MsgJapaneseRequired   = "Please select your Japanese level"
	MsgMotivationRequired = "Please select your motivation"
	MsgEnglishRequired    = "Please select your English level"
	MsgEventFull          = "Sorry, capacity reached. This event is now full."
	MsgEventNotFound      = "Event not found"
	MsgGenericError       = "An error occurred"
	MsgSeatsUnknown       = "Seat availability could not be confirmed. Please try again later."
	MsgEventEnded         = "This event has ended."
	MsgRegistered         = "Registration complete! We look forward to seeing you."
	MsgLoginRequired      = "Staff login required"
)

var translations = []struct {
	key string
	ja  string
}{
	{MsgNameRequired, "名前を入力してください"},
	{MsgNameTooLong, "名前は100文字以内で入力してください"},
	{MsgPhoneRequired, "電話番号を入力してください"},
	{MsgHometownRequired, "出身地を入力してください"},
	{MsgCampusRequired, "キャンパスを選択してください"},
	{MsgJapaneseRequired, "日本語レベルを選択してください"},
	{MsgMotivationRequired, "参加動機を選択してください"},
	{MsgEnglishRequired, "英語レベルを選択してください"},
	{MsgEventFull, "申し訳ありません。定員に達しました。"},
	{MsgEventNotFound, "イベントが見つかりません"},
	{MsgGenericError, "エラーが発生しました"},
	{MsgSeatsUnknown, "空席状況を確認できませんでした。しばらくしてからお試しください。"},
	{MsgEventEnded, "このイベントは終了しました。"},
	{MsgRegistered, "参加登録が完了しました！当日お会いできることを楽しみにしています。"},
	{MsgLoginRequired, "幹部のみログインできます"},
}

func init() {
	for _, t := range translations {
		message.SetString(language.Japanese, t.key, t.ja)
		message.SetString(language.English, t.key, t.key)
	}
}
