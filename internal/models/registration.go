package models

import "time"

// Campus is the campus an applicant belongs to.
type Campus string

const (
	CampusImadegawa Campus = "imadegawa"
	CampusKyotanabe Campus = "kyotanabe"
	CampusOther     Campus = "other"
)

// JapaneseLevel is an applicant's self-reported Japanese proficiency.
type JapaneseLevel string

const (
	JapaneseNative   JapaneseLevel = "native"
	JapaneseN1       JapaneseLevel = "n1"
	JapaneseN2       JapaneseLevel = "n2"
	JapaneseN3       JapaneseLevel = "n3"
	JapaneseN4       JapaneseLevel = "n4"
	JapaneseN5       JapaneseLevel = "n5"
	JapaneseBeginner JapaneseLevel = "beginner"
)

// Motivation is why an applicant wants to join.
type Motivation string

const (
	MotivationImprove Motivation = "improve"
	MotivationFriends Motivation = "friends"
	MotivationCulture Motivation = "culture"
	MotivationFun     Motivation = "fun"
	MotivationOther   Motivation = "other"
)

// EnglishLevel is an applicant's self-reported English proficiency.
type EnglishLevel string

const (
	EnglishNative       EnglishLevel = "native"
	EnglishAdvanced     EnglishLevel = "advanced"
	EnglishIntermediate EnglishLevel = "intermediate"
	EnglishBeginner     EnglishLevel = "beginner"
	EnglishNone         EnglishLevel = "none"
)

// Valid reports whether c is one of the fixed campus values.
func (c Campus) Valid() bool {
	switch c {
	case CampusImadegawa, CampusKyotanabe, CampusOther:
		return true
	}
	return false
}

// Valid reports whether l is one of the fixed Japanese levels.
func (l JapaneseLevel) Valid() bool {
	switch l {
	case JapaneseNative, JapaneseN1, JapaneseN2, JapaneseN3, JapaneseN4, JapaneseN5, JapaneseBeginner:
		return true
	}
	return false
}

// Valid reports whether m is one of the fixed motivations.
func (m Motivation) Valid() bool {
	switch m {
	case MotivationImprove, MotivationFriends, MotivationCulture, MotivationFun, MotivationOther:
		return true
	}
	return false
}

// Valid reports whether l is one of the fixed English levels.
func (l EnglishLevel) Valid() bool {
	switch l {
	case EnglishNative, EnglishAdvanced, EnglishIntermediate, EnglishBeginner, EnglishNone:
		return true
	}
	return false
}

// Registration is one applicant's submission for an event. Rows carry personal
// data and are only ever read on session-guarded staff paths; public code sees
// aggregate counts only.
type Registration struct {
	ID            int64         `json:"id"`
	EventID       int64         `json:"event_id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Hometown      string        `json:"hometown"`
	Campus        Campus        `json:"campus"`
	JapaneseLevel JapaneseLevel `json:"japanese_level"`
	Motivation    Motivation    `json:"japanese_motivation"`
	EnglishLevel  EnglishLevel  `json:"english_level"`
	CreatedAt     time.Time     `json:"created_at"`
}
