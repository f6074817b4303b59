// Package testdict builds small synthetic dictionaries for tests.
//
// Context ids: 0 is BOS/EOS, 1 noun, 2 particle も, 3 particle の.
package testdict

import (
	"testing"

	"github.com/npillmayer/keitai/dict"
)

const (
	Noun     uint16 = 1
	Particle uint16 = 2
	Genitive uint16 = 3
)

// matrix[r][l], r the right id of the predecessor, l the left id of the successor.
var matrix = [4][4]int16{
	{0, -100, 500, 500},
	{-100, 800, -200, -200},
	{500, -200, 1000, 1000},
	{500, -200, 1000, 1000},
}

func noun(surface string, cost int16, reading string) dict.Word {
	return dict.Word{Surface: surface, LeftID: Noun, RightID: Noun, Cost: cost,
		Details: []string{"名詞", "一般", "*", "*", "*", "*", surface, reading, reading}}
}

func particle(surface string, id uint16, cost int16, sub string) dict.Word {
	return dict.Word{Surface: surface, LeftID: id, RightID: id, Cost: cost,
		Details: []string{"助詞", sub, "*", "*", "*", "*", surface, surface, surface}}
}

// Words returns the system words.
func Words() []dict.Word {
	kansai := noun("関西国際空港", 5000, "カンサイコクサイクウコウ")
	kansai.Compound = true
	return []dict.Word{
		noun("すもも", 7546, "スモモ"),
		noun("もも", 7219, "モモ"),
		particle("も", Particle, 4669, "係助詞"),
		particle("の", Genitive, 4816, "連体化"),
		noun("うち", 6000, "ウチ"),
		noun("東京", 3000, "トウキョウ"),
		noun("スカイ", 4000, "スカイ"),
		noun("ツリー", 4000, "ツリー"),
		kansai,
		noun("関西", 2000, "カンサイ"),
		noun("国際", 2000, "コクサイ"),
		noun("空港", 2000, "クウコウ"),
	}
}

// CharDefs returns the character table. HIRAGANA does not invoke
// unknown-word processing; GREEK groups runs of at most two letters.
func CharDefs() (*dict.CharacterDefinitions, error) {
	cats := []dict.CharacterCategory{
		{Name: "DEFAULT", Invoke: true, Group: true},
		{Name: "SPACE", Invoke: false, Group: true},
		{Name: "HIRAGANA", Invoke: false, Group: true},
		{Name: "KATAKANA", Invoke: true, Group: true},
		{Name: "KANJI", Invoke: true, Group: false, Length: 2},
		{Name: "ALPHA", Invoke: true, Group: true},
		{Name: "NUMERIC", Invoke: true, Group: true},
		{Name: "GREEK", Invoke: true, Group: true, Length: 2},
	}
	ranges := []dict.CharRange{
		{Low: 0x0020, High: 0x0020, Categories: []dict.CategoryID{1}},
		{Low: 0x0030, High: 0x0039, Categories: []dict.CategoryID{6}},
		{Low: 0x0041, High: 0x005A, Categories: []dict.CategoryID{5}},
		{Low: 0x0061, High: 0x007A, Categories: []dict.CategoryID{5}},
		{Low: 0x0391, High: 0x03C9, Categories: []dict.CategoryID{7}},
		{Low: 0x3041, High: 0x309F, Categories: []dict.CategoryID{2}},
		{Low: 0x30A1, High: 0x30FF, Categories: []dict.CategoryID{3}},
		{Low: 0x4E00, High: 0x9FFF, Categories: []dict.CategoryID{4}},
	}
	return dict.NewCharacterDefinitions(cats, ranges)
}

func unknownWords() map[dict.CategoryID][]dict.Word {
	unk := func(cost int16, sub string) []dict.Word {
		return []dict.Word{{LeftID: Noun, RightID: Noun, Cost: cost,
			Details: []string{"名詞", sub, "*", "*", "*", "*", "*"}}}
	}
	return map[dict.CategoryID][]dict.Word{
		0: unk(10000, "一般"),
		1: {{Cost: 0, Details: []string{"記号", "空白", "*", "*", "*", "*", "*"}}},
		2: unk(9000, "一般"),
		3: unk(5000, "固有名詞"),
		4: unk(8000, "一般"),
		5: unk(4000, "固有名詞"),
		6: unk(3000, "数"),
		7: unk(4000, "固有名詞"),
	}
}

// New builds the system dictionary.
func New() (*dict.Dictionary, error) {
	m, err := dict.NewConnectionMatrix(4, 4)
	if err != nil {
		return nil, err
	}
	for r := range matrix {
		for l, c := range matrix[r] {
			if err := m.Set(uint16(r), uint16(l), c); err != nil {
				return nil, err
			}
		}
	}
	cd, err := CharDefs()
	if err != nil {
		return nil, err
	}
	unk, err := dict.NewUnknownDictionary(cd.NumCategories(), unknownWords())
	if err != nil {
		return nil, err
	}
	schema, err := dict.SchemaFor("ipadic")
	if err != nil {
		return nil, err
	}
	return dict.New(schema, Words(), m, cd, unk)
}

// Must builds the system dictionary or fails the test.
func Must(t testing.TB) *dict.Dictionary {
	t.Helper()
	d, err := New()
	if err != nil {
		t.Fatalf("building test dictionary: %v", err)
	}
	return d
}

// User returns a user dictionary with 東京スカイツリー, as a simple user
// dictionary row would produce it.
func User(t testing.TB) *dict.UserDictionary {
	t.Helper()
	schema, _ := dict.SchemaFor("ipadic")
	u, err := dict.NewUserDictionary([]dict.Word{{
		Surface: "東京スカイツリー",
		Cost:    -10000,
		Details: schema.SimpleDetails("東京スカイツリー", "カスタム名詞", "トウキョウスカイツリー"),
	}})
	if err != nil {
		t.Fatalf("building test user dictionary: %v", err)
	}
	return u
}
