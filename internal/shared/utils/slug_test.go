package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Hello World", "hello-world"},
		{"punctuation runs", "Go -- is   fun!!!", "go-is-fun"},
		{"leading and trailing", "  ...Intro...  ", "intro"},
		{"accents", "Café crème brûlée", "cafe-creme-brulee"},
		{"vietnamese", "Đà Lạt mùa thu", "da-lat-mua-thu"},
		{"digits kept", "Top 10 tips", "top-10-tips"},
		{"nothing usable", "!!! ???", ""},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"german sharp s", "Straße", "strasse"},
		{"decomposed accents", "Cafe\u0301", "cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "Nguyen Nhat Anh", Transliterate("Nguyễn Nhật Ánh"))
	assert.Equal(t, "Lodz", Transliterate("Łódź"))
	assert.Equal(t, "Privet mir", Transliterate("Привет мир"))
	assert.Equal(t, "plain ascii", Transliterate("plain ascii"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `snake\_case`, EscapeLike("snake_case"))
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, `%go\_lang%`, ContainsPattern("go_lang"))
}

func TestJoinWithAnd(t *testing.T) {
	assert.Equal(t, "", JoinWithAnd(nil))
	assert.Equal(t, "a = $1", JoinWithAnd([]string{"a = $1"}))
	assert.Equal(t, "a = $1 AND b = $2", JoinWithAnd([]string{"a = $1", "b = $2"}))
}
