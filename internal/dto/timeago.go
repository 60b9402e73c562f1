package dto

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Lang string

const (
	LangBn Lang = "bn"
	LangEn Lang = "en"
)

// 第一个是默认语言
var supported = []language.Tag{language.Bengali, language.English}

var matcher = language.NewMatcher(supported)

// ParseLang 支持 "en-US"、"bn-BD" 这类写法，匹配不上时回落到 bn
func ParseLang(s string) Lang {
	_, idx, conf := matcher.Match(language.Make(s))
	if conf == language.No || idx == 0 {
		return LangBn
	}
	return LangEn
}

func (l Lang) tag() language.Tag {
	if l == LangEn {
		return language.English
	}
	return language.Bengali
}

// RelativeTime 精确到分钟、小时、天。时钟回拨导致的未来时间按"刚刚"处理
func RelativeTime(t, now time.Time, lang Lang) string {
	d := now.Sub(t)
	p := message.NewPrinter(lang.tag())

	switch {
	case d < time.Minute:
		if lang == LangEn {
			return "just now"
		}
		return "এইমাত্র"
	case d < time.Hour:
		return unit(p, lang, int(d/time.Minute), "minute", "মিনিট")
	case d < 24*time.Hour:
		return unit(p, lang, int(d/time.Hour), "hour", "ঘণ্টা")
	default:
		return unit(p, lang, int(d/(24*time.Hour)), "day", "দিন")
	}
}

func unit(p *message.Printer, lang Lang, n int, en, bn string) string {
	if lang == LangEn {
		if n == 1 {
			return p.Sprintf("%d %s ago", n, en)
		}
		return p.Sprintf("%d %ss ago", n, en)
	}
	// bn 的 printer 会输出孟加拉数字
	return p.Sprintf("%d %s আগে", n, bn)
}
