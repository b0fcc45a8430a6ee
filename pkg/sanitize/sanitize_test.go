package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Naruto", "Naruto"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>hi", "hi"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"  spaced  ", "spaced"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "Text(%q)", tt.in)
	}
}

func TestCaptionKeepsTelegramTags(t *testing.T) {
	assert.Equal(t, "<b>Yangi</b> <i>anime</i>", Caption("<b>Yangi</b> <i>anime</i>"))
	assert.Equal(t, "click", Caption(`<img src="x" onerror="alert(1)">click`))
	assert.Equal(t, "x", Caption(`<div>x</div>`))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "ўзб…", Truncate("ўзбекча", 4))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "⛔ Bu amal faqat adminlar uchun", Plain("⛔ <b>Bu amal</b> faqat adminlar uchun"))
	assert.Equal(t, "Qayta urinib ko'ring & kuting", Plain("Qayta urinib ko'ring & kuting"))
}
