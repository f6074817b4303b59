package dict

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/resource"
)

func testCharDefs(t *testing.T) *CharacterDefinitions {
	t.Helper()
	cats := []CharacterCategory{
		{Name: "DEFAULT", Invoke: false, Group: true},
		{Name: "HIRAGANA", Invoke: false, Group: true},
		{Name: "KATAKANA", Invoke: true, Group: true, Length: 2},
		{Name: "KANJI", Invoke: false, Group: false, Length: 2},
		{Name: "KANJINUMERIC", Invoke: true, Group: true},
	}
	ranges := []CharRange{
		{Low: 0x3041, High: 0x309F, Categories: []CategoryID{1}},
		{Low: 0x30A1, High: 0x30FF, Categories: []CategoryID{2}},
		{Low: 0x4E00, High: 0x9FFF, Categories: []CategoryID{3}},
		{Low: 0x4E00, High: 0x4E00, Categories: []CategoryID{4, 3}}, // 一
		{Low: 0x20000, High: 0x2A6DF, Categories: []CategoryID{3}},
	}
	cd, err := NewCharacterDefinitions(cats, ranges)
	if err != nil {
		t.Fatal(err)
	}
	return cd
}

func testDictionary(t *testing.T) *Dictionary {
	t.Helper()
	m, err := NewConnectionMatrix(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.Set(1, 2, -100)
	_ = m.Set(2, 1, 250)
	cd := testCharDefs(t)
	unk, err := NewUnknownDictionary(cd.NumCategories(), map[CategoryID][]Word{
		2: {{LeftID: 1, RightID: 1, Cost: 1000, Details: []string{"名詞", "固有名詞"}}},
		4: {{LeftID: 2, RightID: 2, Cost: 900, Details: []string{"名詞", "数"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	words := []Word{
		{Surface: "もも", LeftID: 1, RightID: 1, Cost: 100, Details: []string{"名詞", "もも"}},
		{Surface: "すもも", LeftID: 1, RightID: 1, Cost: 200, Details: []string{"名詞", "すもも"}},
		{Surface: "も", LeftID: 2, RightID: 2, Cost: 50, Details: []string{"助詞", "も"}},
		{Surface: "もも", LeftID: 2, RightID: 2, Cost: 300, Details: []string{"動詞", "もも"}},
		{Surface: "東京都庁舎", LeftID: 1, RightID: 1, Cost: 10, Details: []string{"名詞", "とうきょうとちょうしゃ"}, Compound: true},
	}
	schema, _ := SchemaFor("ipadic")
	d, err := New(schema, words, m, cd, unk)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestPrefixDictionaryGroupsSurfaces(t *testing.T) {
	d := testDictionary(t)
	matches := d.Words.CommonPrefixSearch([]byte("すももも"))
	if len(matches) != 1 || matches[0].Length != len("すもも") {
		t.Fatalf("expected one match for すもも, got %v", matches)
	}
	matches = d.Words.CommonPrefixSearch([]byte("ももの"))
	if len(matches) != 2 {
		t.Fatalf("expected matches for も and もも, got %v", matches)
	}
	momo := matches[1]
	if momo.Length != len("もも") || len(momo.WordIDs) != 2 {
		t.Fatalf("expected two entries for もも, got %v", momo)
	}
	if momo.WordIDs[1].Index != momo.WordIDs[0].Index+1 {
		t.Errorf("entries of one surface should be contiguous, got %v", momo.WordIDs)
	}
	// source order is kept for equal surfaces
	e, _ := d.Words.Entry(momo.WordIDs[0])
	if details, _ := d.Words.Details(e); details[0] != "名詞" {
		t.Errorf("expected first もも entry to be the noun, got %v", details)
	}
	if len(d.Words.CommonPrefixSearch([]byte("うち"))) != 0 {
		t.Errorf("expected no match for うち")
	}
	if _, ok := d.Words.Entry(WordID{Index: 0, IsSystem: false}); ok {
		t.Errorf("system table must not resolve user word ids")
	}
}

func TestCharacterDefinitionsLookup(t *testing.T) {
	cd := testCharDefs(t)
	hira, _ := cd.CategoryByName("HIRAGANA")
	kanji, _ := cd.CategoryByName("KANJI")
	num, _ := cd.CategoryByName("KANJINUMERIC")
	deflt, _ := cd.CategoryByName("DEFAULT")
	tests := []struct {
		r    rune
		want []CategoryID
	}{
		{'あ', []CategoryID{hira}},
		{'東', []CategoryID{kanji}},
		{'一', []CategoryID{num, kanji}},
		{'A', []CategoryID{deflt}},
		{0x20B9F, []CategoryID{kanji}},
		{0x1F600, []CategoryID{deflt}},
	}
	for _, tt := range tests {
		if got := cd.Lookup(tt.r); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lookup(%U) = %v, want %v", tt.r, got, tt.want)
		}
	}
	if !cd.Contains('一', kanji) || cd.Contains('あ', kanji) {
		t.Errorf("Contains gives wrong answers")
	}
}

func TestCharacterDefinitionsWithoutDefault(t *testing.T) {
	cd, err := NewCharacterDefinitions([]CharacterCategory{{Name: "KANJI"}},
		[]CharRange{{Low: 0x4E00, High: 0x9FFF, Categories: []CategoryID{0}}})
	if err != nil {
		t.Fatal(err)
	}
	if got := cd.Lookup('a'); len(got) != 0 {
		t.Errorf("expected no category for undeclared code point, got %v", got)
	}
}

func TestCharacterDefinitionsRejectsBadInput(t *testing.T) {
	cats := []CharacterCategory{{Name: "A"}, {Name: "A"}}
	if _, err := NewCharacterDefinitions(cats, nil); err == nil {
		t.Errorf("expected duplicate category names to be rejected")
	}
	cats = []CharacterCategory{{Name: "A"}}
	ranges := []CharRange{{Low: 'a', High: 'z', Categories: []CategoryID{3}}}
	if _, err := NewCharacterDefinitions(cats, ranges); err == nil {
		t.Errorf("expected undefined category reference to be rejected")
	}
}

func TestConnectionMatrixCodec(t *testing.T) {
	m, _ := NewConnectionMatrix(2, 3)
	_ = m.Set(1, 2, -7)
	_ = m.Set(0, 1, 32000)
	if err := m.Set(2, 0, 1); err == nil {
		t.Errorf("expected out-of-range cell to be rejected")
	}
	data, _ := m.MarshalBinary()
	m2 := &ConnectionMatrix{}
	if err := m2.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if m2.RightSize() != 2 || m2.LeftSize() != 3 || m2.Cost(1, 2) != -7 || m2.Cost(0, 1) != 32000 {
		t.Errorf("matrix changed in round trip")
	}
	if err := m2.UnmarshalBinary(data[:len(data)-1]); err == nil {
		t.Errorf("expected truncated matrix to be rejected")
	}
}

func TestDictionaryWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	d := testDictionary(t)
	if d.Decompose != DefaultDecomposePolicy {
		t.Errorf("new dictionary has policy %+v", d.Decompose)
	}
	d.Decompose = DecomposePolicy{KanjiPenalty: 2500, OtherPenalty: 1200}
	if err := d.Write(dir, resource.Zstd); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Words.Len() != d.Words.Len() {
		t.Fatalf("expected %d words, got %d", d.Words.Len(), loaded.Words.Len())
	}
	if loaded.Schema.Kind != "ipadic" || loaded.Schema.FieldIndex("reading") != 7 {
		t.Errorf("schema not restored: %+v", loaded.Schema)
	}
	if loaded.Decompose != d.Decompose {
		t.Errorf("decomposition policy not restored: %+v", loaded.Decompose)
	}
	for _, surface := range []string{"すもも", "もも", "も", "東京都庁舎"} {
		want, got := d.Words.Lookup(surface), loaded.Words.Lookup(surface)
		if !reflect.DeepEqual(want, got) {
			t.Errorf("entries for %s differ: %v vs %v", surface, want, got)
		}
	}
	cmp := loaded.Words.Lookup("東京都庁舎")[0]
	if !loaded.IsCompound(cmp.ID) || loaded.IsCompound(loaded.Words.Lookup("も")[0].ID) {
		t.Errorf("compound flags not restored")
	}
	if loaded.Matrix.Cost(1, 2) != -100 {
		t.Errorf("matrix not restored")
	}
	kata, _ := loaded.CharDef.CategoryByName("KATAKANA")
	unk := loaded.Unknown.Entries(kata)
	if len(unk) != 1 || !unk[0].ID.IsUnknown() {
		t.Fatalf("unknown entries not restored: %v", unk)
	}
	if details, _ := loaded.Unknown.Details(unk[0]); details[1] != "固有名詞" {
		t.Errorf("unknown details not restored: %v", details)
	}
}

func TestDecomposePolicyPenalty(t *testing.T) {
	p := DefaultDecomposePolicy
	for _, tt := range []struct {
		surface string
		want    int
	}{
		{"関西国際空港", 3000},
		{"東京スカイツリー", 1700},
		{"abcdefgh", 1700},
	} {
		if got := p.Penalty([]byte(tt.surface)); got != tt.want {
			t.Errorf("%s: expected penalty %d, got %d", tt.surface, tt.want, got)
		}
	}
}

func TestLoadRejectsNegativePolicy(t *testing.T) {
	dir := t.TempDir()
	d := testDictionary(t)
	d.Decompose.OtherPenalty = -1
	if err := d.Write(dir, resource.None); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, errs.Deserialize) {
		t.Fatalf("expected deserialize error, got %v", err)
	}
}

func TestLoadMissingMatrix(t *testing.T) {
	dir := t.TempDir()
	if err := testDictionary(t).Write(dir, resource.None); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, MatrixFile)); err != nil {
		t.Fatal(err)
	}
	d, err := Load(dir)
	if d != nil || err == nil {
		t.Fatalf("expected load to fail without %s", MatrixFile)
	}
	if !errors.Is(err, errs.IO) || !strings.Contains(err.Error(), MatrixFile) {
		t.Errorf("expected IO error naming %s, got %v", MatrixFile, err)
	}
}

func TestLoadRejectsContextIDsOutsideMatrix(t *testing.T) {
	dir := t.TempDir()
	if err := testDictionary(t).Write(dir, resource.Deflate); err != nil {
		t.Fatal(err)
	}
	small, _ := NewConnectionMatrix(1, 1)
	data, _ := small.MarshalBinary()
	if err := resource.WriteFile(filepath.Join(dir, MatrixFile), data, resource.None); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if !errors.Is(err, errs.Deserialize) || !strings.Contains(err.Error(), EntriesFile) {
		t.Errorf("expected deserialize error naming %s, got %v", EntriesFile, err)
	}
}

func TestLoadCorruptResource(t *testing.T) {
	dir := t.TempDir()
	if err := testDictionary(t).Write(dir, resource.LZ4); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, CharDefFile), []byte{0, 1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if !errors.Is(err, errs.Deserialize) || !strings.Contains(err.Error(), CharDefFile) {
		t.Errorf("expected deserialize error naming %s, got %v", CharDefFile, err)
	}
}

func TestUserDictionaryWriteAndLoad(t *testing.T) {
	schema, _ := SchemaFor("ipadic")
	words := []Word{
		{Surface: "東京スカイツリー", Cost: -10000,
			Details: schema.SimpleDetails("東京スカイツリー", "カスタム名詞", "トウキョウスカイツリー")},
	}
	u, err := NewUserDictionary(words)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "user.bin")
	if err := u.Write(path, resource.Zstd); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadUser(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := loaded.Words.Lookup("東京スカイツリー")
	if len(entries) != 1 || entries[0].ID.IsSystem {
		t.Fatalf("expected one user entry, got %v", entries)
	}
	details, _ := loaded.Words.Details(entries[0])
	if details[0] != "カスタム名詞" || details[6] != "東京スカイツリー" || details[7] != "トウキョウスカイツリー" {
		t.Errorf("unexpected details %v", details)
	}
	m, _ := NewConnectionMatrix(1, 1)
	if err := loaded.CheckAgainst(m); err != nil {
		t.Errorf("context id 0 must fit any matrix: %v", err)
	}
}

func TestSchemas(t *testing.T) {
	for _, kind := range Kinds() {
		s, err := SchemaFor(kind)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("built-in schema %s: %v", kind, err)
		}
	}
	if _, err := SchemaFor("nope"); !errors.Is(err, errs.Args) {
		t.Errorf("expected Args error for unknown kind, got %v", err)
	}
	s := Schema{Kind: "custom", Fields: []string{"pos", "reading", "x"}}
	if got := s.SimpleDetails("a", "P", "R"); !reflect.DeepEqual(got, []string{"P", "R", "*"}) {
		t.Errorf("unexpected default simple details %v", got)
	}
}
