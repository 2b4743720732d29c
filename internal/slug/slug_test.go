package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"turkish folding", "Çölde Öykü", "colde-oyku"},
		{"all turkish letters", "çÇğĞıİöÖşŞüÜ", "ccggiioossuu"},
		{"lord of the rings", "Yüzüklerin Efendisi", "yuzuklerin-efendisi"},
		{"whitespace runs", "  Suç   ve\tCeza \n", "suc-ve-ceza"},
		{"punctuation dropped", "Hello, World!", "hello-world"},
		{"punctuation between words", "a ! b", "a-b"},
		{"hyphen runs collapse", "one -- two---three", "one-two-three"},
		{"leading and trailing hyphens", "--edge--", "edge"},
		{"underscore kept", "snake_case title", "snake_case-title"},
		{"digits kept", "1984", "1984"},
		{"other accents folded", "Les Misérables", "les-miserables"},
		{"only symbols", "?!*&", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Çölde Öykü",
		"  Multiple   spaces  ",
		"Mixed-CASE_and 123",
		"İstanbul Hatırası",
		"---",
		"Les Misérables -- Tome I",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "input %q", in)
	}
}

func TestMake_OnlySlugAlphabet(t *testing.T) {
	out := Make("Ünlü Şair: Nâzım Hikmet (1902–1963) & Ğ")
	for _, r := range out {
		assert.True(t, isWordRune(r) || r == '-', "unexpected rune %q in %q", r, out)
	}
	assert.NotContains(t, out, "--")
}
