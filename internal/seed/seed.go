// Package seed holds a small multilingual sample corpus of fifteen documents.
// All but one describe airports in Korean, Japanese or Chinese; the odd one
// out is a Korean text for partial-match experiments.
package seed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aman-CERP/cjkfts/internal/document"
)

// Document is a sample document tagged with its language.
type Document struct {
	Lang string // ISO 639-1
	document.Input
}

var corpus = []Document{
	{"ko", document.Input{
		Title:    "나리타 국제공항",
		Body:     "나리타 국제공항(일본어: 成田国際空港, 영어: Narita International Airport, IATA: NRT, ICAO: RJAA)은 일본 지바현 나리타시에 위치한 국제공항으로, 도쿄도 도심에서 동북쪽으로 약 62km 떨어져 있다.",
		Metadata: `{"country":"일본","iata":"NRT","icao":"RJAA","city":"나리타"}`,
	}},
	{"ko", document.Input{
		Title:    "도쿄 국제공항",
		Body:     "도쿄국제공항(일본어: 東京国際空港、とうきょうこくさいくうこう, 영어: Tokyo International Airport)은 일본 도쿄도 오타구에 있는 공항이다. 보통 이 일대의 옛 지명을 본뜬 하네다 공항(일본어: 羽田空港, 영어: Haneda Airport)이라고 불린다.",
		Metadata: `{"country":"일본","iata":"HND","icao":"RJTT","city":"도쿄"}`,
	}},
	{"ko", document.Input{
		Title:    "간사이 국제공항",
		Body:     "간사이 국제공항(일본어: 関西国際空港, IATA: KIX, ICAO: RJBB)은 일본 오사카부 오사카 만에 조성된 인공섬에 위치한 일본의 공항으로, 대한민국의 인천국제공항보다 6년 반 앞선 1994년 9월 4일에 개항했다.",
		Metadata: `{"country":"일본","iata":"KIX","icao":"RJBB","city":"오사카"}`,
	}},
	{"ko", document.Input{
		Title:    "인천국제공항",
		Body:     "인천국제공항(仁川國際空港, Incheon International Airport, IATA: ICN, ICAO: RKSI)은 대한민국 인천광역시 중구 운서동에 있는 국제공항이다. 2001년 3월 29일 개항하였다.",
		Metadata: `{"country":"한국","iata":"ICN","icao":"RKSI","city":"인천"}`,
	}},
	{"ko", document.Input{
		Title:    "김포국제공항",
		Body:     "김포국제공항(金浦國際空港, Gimpo International Airport, IATA: GMP, ICAO: RKSS)은 대한민국 서울특별시 강서구 공항동에 있는 국제공항이다. 서울 도심에서 서쪽으로 약 15km 떨어져 있다.",
		Metadata: `{"country":"한국","iata":"GMP","icao":"RKSS","city":"서울"}`,
	}},
	{"ko", document.Input{
		Title:    "제주국제공항",
		Body:     "제주국제공항(濟州國際空港, Jeju International Airport, IATA: CJU, ICAO: RKPC)은 대한민국 제주특별자치도 제주시 용담동에 있는 국제공항이다. 한국에서 가장 많은 승객이 이용하는 공항이다.",
		Metadata: `{"country":"한국","iata":"CJU","icao":"RKPC","city":"제주"}`,
	}},
	{"ko", document.Input{
		Title:    "싱가포르 창이공항",
		Body:     "싱가포르 창이공항(Singapore Changi Airport, IATA: SIN, ICAO: WSSS)은 싱가포르에 있는 국제공항이다. 세계적으로 유명한 허브공항이며, 최고의 서비스로 여러 차례 수상한 바 있다.",
		Metadata: `{"country":"싱가포르","iata":"SIN","icao":"WSSS","city":"싱가포르"}`,
	}},
	{"ko", document.Input{
		Title:    "홍콩국제공항",
		Body:     "홍콩국제공항(香港國際機場, Hong Kong International Airport, IATA: HKG, ICAO: VHHH)은 중화인민공화국 홍콩특별행정구에 있는 국제공항이다. 란타우섬 북쪽 해상의 인공섬에 위치한다.",
		Metadata: `{"country":"홍콩","iata":"HKG","icao":"VHHH","city":"홍콩"}`,
	}},
	{"ja", document.Input{
		Title:    "東京国際空港",
		Body:     "東京国際空港（とうきょうこくさいくうこう）は、東京都大田区にある日本最大の空港である。通称は羽田空港。国内線・国際線ともに多くの路線を持つ重要な拠点空港である。",
		Metadata: `{"country":"日本","iata":"HND","icao":"RJTT","city":"東京","language":"ja"}`,
	}},
	{"ja", document.Input{
		Title:    "関西国際空港",
		Body:     "関西国際空港（かんさいこくさいくうこう）は、大阪府泉佐野市にある国際空港である。愛称は「関空」。大阪湾の人工島に建設され、24時間運用可能な空港として知られている。",
		Metadata: `{"country":"日本","iata":"KIX","icao":"RJBB","city":"大阪","language":"ja"}`,
	}},
	{"ja", document.Input{
		Title:    "中部国際空港",
		Body:     "中部国際空港（ちゅうぶこくさいくうこう）は、愛知県常滑市にある国際空港である。愛称はセントレア。名古屋の玄関口として、中部地方の経済発展に貢献している。",
		Metadata: `{"country":"日本","iata":"NGO","icao":"RJGG","city":"名古屋","language":"ja"}`,
	}},
	{"zh", document.Input{
		Title:    "北京首都国际机场",
		Body:     "北京首都国际机场是中国最繁忙的机场之一，位于北京市顺义区。作为中国国际航空的主要枢纽，连接世界各地的重要航线。机场设施完善，服务优质。",
		Metadata: `{"country":"中国","iata":"PEK","icao":"ZBAA","city":"北京","language":"zh"}`,
	}},
	{"zh", document.Input{
		Title:    "上海浦东国际机场",
		Body:     "上海浦东国际机场是中国三大门户复合枢纽之一，位于上海市浦东新区。是上海两座国际机场之一，主要服务国际航班。机场现代化程度高，吞吐量巨大。",
		Metadata: `{"country":"中国","iata":"PVG","icao":"ZSPD","city":"上海","language":"zh"}`,
	}},
	{"zh", document.Input{
		Title:    "广州白云国际机场",
		Body:     "广州白云国际机场位于广州市白云区，是中国三大航空枢纽之一。作为华南地区最大的交通枢纽，连接国内外众多城市。机场配套设施齐全，交通便利。",
		Metadata: `{"country":"中国","iata":"CAN","icao":"ZGGG","city":"广州","language":"zh"}`,
	}},
	{"ko", document.Input{
		Title:    "우리 할아버지",
		Body:     "우리 할아버지는 항상 아버지에게 좋은 가르침을 주셨다. 할머니와 함께 시골에서 농사를 지으며 평화롭게 살고 계신다.",
		Metadata: `{"category":"가족","language":"ko"}`,
	}},
}

// Documents returns a fresh copy of the corpus.
func Documents() []Document {
	return append([]Document(nil), corpus...)
}

// Inputs returns the corpus as lifecycle inputs, ids left for generation.
func Inputs() []document.Input {
	in := make([]document.Input, len(corpus))
	for i, d := range corpus {
		in[i] = d.Input
	}
	return in
}

// Summary describes how many documents of each language docs holds, for
// example "15 documents (ja 3, ko 9, zh 3)".
func Summary(docs []Document) string {
	byLang := make(map[string]int)
	for _, d := range docs {
		byLang[d.Lang]++
	}
	langs := make([]string, 0, len(byLang))
	for l := range byLang {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	parts := make([]string, len(langs))
	for i, l := range langs {
		parts[i] = fmt.Sprintf("%s %d", l, byLang[l])
	}
	return fmt.Sprintf("%d documents (%s)", len(docs), strings.Join(parts, ", "))
}
