package scheduler

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgOpenedTitle  = "Your time capsule has opened! 🎁"
	msgBodyTitled   = "The diary \"%s\" can be read now."
	msgBodyUntitled = "Meet your memories again."
	msgChannelName  = "Time capsule alerts"
)

func init() {
	ko := language.Korean
	_ = message.SetString(ko, msgOpenedTitle, "타임캡슐이 개봉되었습니다! 🎁")
	_ = message.SetString(ko, msgBodyTitled, "\"%s\" 일기를 이제 읽을 수 있습니다.")
	_ = message.SetString(ko, msgBodyUntitled, "당신의 추억을 다시 만나보세요.")
	_ = message.SetString(ko, msgChannelName, "타임캡슐 알림")
}

// openedContent returns the localized title and body of the open alert.
func openedContent(tag language.Tag, diaryTitle string) (string, string) {
	p := message.NewPrinter(tag)
	title := p.Sprintf(msgOpenedTitle)
	if diaryTitle == "" {
		return title, p.Sprintf(msgBodyUntitled)
	}
	return title, p.Sprintf(msgBodyTitled, diaryTitle)
}

func channelName(tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf(msgChannelName)
}
