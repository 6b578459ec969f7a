package models

import (
	"fmt"
	"time"
)

// TermName is one of the 24 solar terms (jieqi).
type TermName string

const (
	TermLichun      TermName = "立春"
	TermYushui      TermName = "雨水"
	TermJingzhe     TermName = "惊蛰"
	TermChunfen     TermName = "春分"
	TermQingming    TermName = "清明"
	TermGuyu        TermName = "谷雨"
	TermLixia       TermName = "立夏"
	TermXiaoman     TermName = "小满"
	TermMangzhong   TermName = "芒种"
	TermXiazhi      TermName = "夏至"
	TermXiaoshu     TermName = "小暑"
	TermDashu       TermName = "大暑"
	TermLiqiu       TermName = "立秋"
	TermChushu      TermName = "处暑"
	TermBailu       TermName = "白露"
	TermQiufen      TermName = "秋分"
	TermHanlu       TermName = "寒露"
	TermShuangjiang TermName = "霜降"
	TermLidong      TermName = "立冬"
	TermXiaoxue     TermName = "小雪"
	TermDaxue       TermName = "大雪"
	TermDongzhi     TermName = "冬至"
	TermXiaohan     TermName = "小寒"
	TermDahan       TermName = "大寒"
)

// TermCount is the number of solar terms in one cycle.
const TermCount = 24

// TermNames lists the terms in cycle order starting from 立春.
var TermNames = [TermCount]TermName{
	TermLichun, TermYushui, TermJingzhe, TermChunfen, TermQingming, TermGuyu,
	TermLixia, TermXiaoman, TermMangzhong, TermXiazhi, TermXiaoshu, TermDashu,
	TermLiqiu, TermChushu, TermBailu, TermQiufen, TermHanlu, TermShuangjiang,
	TermLidong, TermXiaoxue, TermDaxue, TermDongzhi, TermXiaohan, TermDahan,
}

// termPairs maps each term to its counterpart in the opposite hemisphere.
var termPairs = map[TermName]TermName{
	TermLichun: TermLiqiu, TermYushui: TermChushu, TermJingzhe: TermBailu, TermChunfen: TermQiufen,
	TermQingming: TermHanlu, TermGuyu: TermShuangjiang, TermLixia: TermLidong, TermXiaoman: TermXiaoxue,
	TermMangzhong: TermDaxue, TermXiazhi: TermDongzhi, TermXiaoshu: TermXiaohan, TermDashu: TermDahan,
	TermLiqiu: TermLichun, TermChushu: TermYushui, TermBailu: TermJingzhe, TermQiufen: TermChunfen,
	TermHanlu: TermQingming, TermShuangjiang: TermGuyu, TermLidong: TermLixia, TermXiaoxue: TermXiaoman,
	TermDaxue: TermMangzhong, TermDongzhi: TermXiazhi, TermXiaohan: TermXiaoshu, TermDahan: TermDashu,
}

// termMonths holds the calendar month each term falls in.
var termMonths = map[TermName]time.Month{
	TermLichun: time.February, TermYushui: time.February, TermJingzhe: time.March, TermChunfen: time.March,
	TermQingming: time.April, TermGuyu: time.April, TermLixia: time.May, TermXiaoman: time.May,
	TermMangzhong: time.June, TermXiazhi: time.June, TermXiaoshu: time.July, TermDashu: time.July,
	TermLiqiu: time.August, TermChushu: time.August, TermBailu: time.September, TermQiufen: time.September,
	TermHanlu: time.October, TermShuangjiang: time.October, TermLidong: time.November, TermXiaoxue: time.November,
	TermDaxue: time.December, TermDongzhi: time.December, TermXiaohan: time.January, TermDahan: time.January,
}

// Pair returns the hemisphere-mirrored counterpart of name.
func (n TermName) Pair() (TermName, bool) {
	p, ok := termPairs[n]
	return p, ok
}

// Month returns the fixed calendar month of the term.
func (n TermName) Month() (time.Month, bool) {
	m, ok := termMonths[n]
	return m, ok
}

// Valid reports whether n is one of the 24 terms.
func (n TermName) Valid() bool {
	_, ok := termPairs[n]
	return ok
}

// Index returns the position of n in TermNames, or -1.
func (n TermName) Index() int {
	for i, name := range TermNames {
		if name == n {
			return i
		}
	}
	return -1
}

// Hemisphere identifies where a birth was reported.
type Hemisphere string

const (
	HemisphereNorth Hemisphere = "north"
	HemisphereSouth Hemisphere = "south"
)

// Valid reports whether h is north or south.
func (h Hemisphere) Valid() bool {
	return h == HemisphereNorth || h == HemisphereSouth
}

// Label returns the display label used by the front-end.
func (h Hemisphere) Label() string {
	if h == HemisphereSouth {
		return "南半球（原始）"
	}
	return "北半球（原始）"
}

// TermSource labels where a term set came from.
type TermSource string

const (
	TermSourceRemote TermSource = "remote"
	TermSourceLocal  TermSource = "local-approximate"
)

// SolarTerm is a single term instant. Year is the calendar year the instant falls in.
type SolarTerm struct {
	Name   TermName   `json:"name"`
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`
}

// Date formats the term date as YYYY-MM-DD.
func (t SolarTerm) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year, int(t.Month), t.Day)
}

// Time formats the term time as HH:MM.
func (t SolarTerm) Time() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// At returns the instant in the term's own calendar year.
func (t SolarTerm) At() time.Time {
	return time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// AnchorYear converts a solar year into the calendar year of a term in the given month.
// The solar year starts at 立春, so January terms belong to the following calendar year.
func AnchorYear(solarYear int, month time.Month) int {
	if month >= time.February {
		return solarYear
	}
	return solarYear + 1
}

// TermSet is the 24 terms of one solar year, in TermNames order.
type TermSet struct {
	Year   int         `json:"year"`
	Source TermSource  `json:"source"`
	Terms  []SolarTerm `json:"terms"`
}

// Find returns the term with the given name.
func (s TermSet) Find(name TermName) (SolarTerm, bool) {
	for _, t := range s.Terms {
		if t.Name == name {
			return t, true
		}
	}
	return SolarTerm{}, false
}

// ResolvedTerm is a term anchored to a full instant for interval lookups.
type ResolvedTerm struct {
	SolarTerm
	At time.Time
}

// Display renders the term as 2008年2月4日 19:00.
func (r ResolvedTerm) Display() string {
	return fmt.Sprintf("%d年%d月%d日 %s", r.At.Year(), int(r.At.Month()), r.At.Day(), r.At.Format("15:04"))
}

// TermInterval is the window of terms enclosing an instant.
type TermInterval struct {
	Prev    ResolvedTerm
	Current ResolvedTerm
	Next    ResolvedTerm
}

// ConversionResult is the outcome of converting one birth date/time.
type ConversionResult struct {
	Hemisphere   Hemisphere
	Year         int
	Input        time.Time
	Output       time.Time
	CurrentTerm  TermName
	ActualTerm   TermName
	InputWindow  TermInterval
	OutputWindow *TermInterval
	MirroredTerm *ResolvedTerm
	Source       TermSource
}
