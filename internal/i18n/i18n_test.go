package i18n

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, LangJA, Parse("ja"))
	assert.Equal(t, LangEN, Parse("en"))
	assert.Equal(t, Default, Parse(""))
	assert.Equal(t, Default, Parse("fr"))
	assert.Equal(t, Default, Parse("EN"), "flag values are exact, not case-folded")
}

func TestToggle(t *testing.T) {
	assert.Equal(t, LangEN, LangJA.Toggle())
	assert.Equal(t, LangJA, LangEN.Toggle())
	assert.Equal(t, LangJA, LangJA.Toggle().Toggle())
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Lang
	}{
		{"", Default},
		{"ja", LangJA},
		{"ja-JP,ja;q=0.9,en;q=0.8", LangJA},
		{"en-US,en;q=0.9", LangEN},
		{"en-GB", LangEN},
		{"garbage;;;", Default},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromAcceptLanguage(tt.header), "header %q", tt.header)
	}
}

// A browser asking for a language the site does not carry gets the default,
// not whatever the matcher considers the lesser evil.
func TestFromAcceptLanguageUnsupportedFallsBackToDefault(t *testing.T) {
	for _, header := range []string{
		"fr-FR,fr;q=0.9",
		"de-DE,de;q=0.8",
		"zh-CN,zh;q=0.9",
		"ko",
	} {
		assert.Equal(t, Default, FromAcceptLanguage(header), "header %q", header)
	}
}

func TestLocalizedMessages(t *testing.T) {
	assert.Equal(t, "申し訳ありません。定員に達しました。", T(LangJA, MsgEventFull))
	assert.Equal(t, MsgEventFull, T(LangEN, MsgEventFull))
	assert.Equal(t, "名前を入力してください", T(LangJA, MsgNameRequired))
}

func TestLocalizeOptions(t *testing.T) {
	ja := Localize(LangJA, CampusOptions)
	en := Localize(LangEN, CampusOptions)

	require.Len(t, ja, 3)
	assert.Equal(t, "imadegawa", ja[0].Value)
	assert.Equal(t, "今出川キャンパス", ja[0].Label)
	assert.Equal(t, "Imadegawa Campus", en[0].Label)
}

func TestFormOptionsForCoversAllSets(t *testing.T) {
	opts := FormOptionsFor(LangEN)
	assert.Len(t, opts.Campus, 3)
	assert.Len(t, opts.JapaneseLevel, 7)
	assert.Len(t, opts.Motivation, 5)
	assert.Len(t, opts.EnglishLevel, 5)
}

func setupLangRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler()
	r := gin.New()
	r.Use(Middleware())
	r.GET("/lang", h.Current)
	r.POST("/lang/toggle", h.Toggle)
	return r
}

func currentLang(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Data struct {
			Lang string `json:"lang"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data.Lang
}

func TestLangMiddlewareResolution(t *testing.T) {
	r := setupLangRouter()

	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"first contact, no hints", "", "", "ja"},
		{"first contact, english browser", "", "en-US,en;q=0.9", "en"},
		{"cookie wins over header", "ja", "en-US", "ja"},
		{"bad cookie falls back to default", "de", "", "ja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/lang", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, currentLang(t, w.Body.Bytes()))
		})
	}
}

func TestToggleEndpointSetsCookie(t *testing.T) {
	r := setupLangRouter()

	req := httptest.NewRequest(http.MethodPost, "/lang/toggle", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "ja"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", currentLang(t, w.Body.Bytes()))

	var langCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			langCookie = c
		}
	}
	require.NotNil(t, langCookie, "toggle must persist the new flag")
	assert.Equal(t, "en", langCookie.Value)
	assert.Equal(t, CookieMaxAge, langCookie.MaxAge)
}
