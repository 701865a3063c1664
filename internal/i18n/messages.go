// Package i18n provides the localized user-facing strings of the API.
// The app ships a Japanese and an English UI; error messages returned to
// clients follow the request's Accept-Language header.
package i18n

import "golang.org/x/text/language"

// Key identifies one translatable message.
type Key string

const (
	KeyInvalidBody      Key = "invalid_body"
	KeyUnauthorized     Key = "unauthorized"
	KeyNotFound         Key = "not_found"
	KeyEmailTaken       Key = "email_taken"
	KeyValidationFailed Key = "validation_failed"
	KeyInternalError    Key = "internal_error"
	KeyMethodNotAllowed Key = "method_not_allowed"
)

// English is first so it wins when nothing matches.
var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[Key]string{
	language.English: {
		KeyInvalidBody:      "Invalid request body",
		KeyUnauthorized:     "Authentication required",
		KeyNotFound:         "Resource not found",
		KeyEmailTaken:       "Email is already registered",
		KeyValidationFailed: "Validation failed",
		KeyInternalError:    "Internal server error",
		KeyMethodNotAllowed: "Method not allowed",
	},
	language.Japanese: {
		KeyInvalidBody:      "リクエストの形式が正しくありません",
		KeyUnauthorized:     "ログインが必要です",
		KeyNotFound:         "リソースが見つかりません",
		KeyEmailTaken:       "このメールアドレスは既に登録されています",
		KeyValidationFailed: "入力内容に誤りがあります",
		KeyInternalError:    "サーバーエラーが発生しました",
		KeyMethodNotAllowed: "許可されていないメソッドです",
	},
}

// Message returns the translation of key for the best match of the given
// Accept-Language header value. An empty or unparsable header falls back to
// English, as does an unknown key (by returning the key itself).
func Message(acceptLanguage string, key Key) string {
	tag := language.English
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			_, idx, _ := matcher.Match(tags...)
			tag = supported[idx]
		}
	}
	if msg, ok := messages[tag][key]; ok {
		return msg
	}
	if msg, ok := messages[language.English][key]; ok {
		return msg
	}
	return string(key)
}
