package auth

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// messages doubles as the catalog key for translations.
var messages = [...]string{
	KindUnknown:       "Something went wrong. Please try again.",
	KindInvalidEmail:  "The email address is not valid.",
	KindUserDisabled:  "This account has been disabled.",
	KindUserNotFound:  "No account exists for this email.",
	KindWrongPassword: "The password is incorrect.",
	KindEmailInUse:    "This email is already in use.",
	KindWeakPassword:  "The password is too weak.",
	KindNetwork:       "Please check your network connection.",
}

var _ = [1]struct{}{}[len(messages)-int(kindCount)]

var korean = [...]string{
	KindUnknown:       "오류가 발생했습니다. 다시 시도해주세요.",
	KindInvalidEmail:  "유효하지 않은 이메일 주소입니다.",
	KindUserDisabled:  "비활성화된 계정입니다.",
	KindUserNotFound:  "존재하지 않는 계정입니다.",
	KindWrongPassword: "잘못된 비밀번호입니다.",
	KindEmailInUse:    "이미 사용 중인 이메일입니다.",
	KindWeakPassword:  "비밀번호가 너무 약합니다.",
	KindNetwork:       "네트워크 연결을 확인해주세요.",
}

var _ = [1]struct{}{}[len(korean)-int(kindCount)]

func init() {
	for k, msg := range korean {
		_ = message.SetString(language.Korean, messages[k], msg)
	}
}

// Message returns the user-facing text for kind in the language of tag.
// Languages without a translation get English.
func Message(kind Kind, tag language.Tag) string {
	if kind < 0 || kind >= kindCount {
		kind = KindUnknown
	}
	return message.NewPrinter(tag).Sprintf(messages[kind])
}

// MessageFor classifies err and returns its user-facing text.
func MessageFor(err error, tag language.Tag) string {
	return Message(KindOf(err), tag)
}
