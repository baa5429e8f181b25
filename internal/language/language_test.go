package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Locale
	}{
		{"hindi acceptance", "ठीक है", Hindi},
		{"kannada acceptance", "ಹೌದು", Kannada},
		{"plain ascii", "show me electronics", English},
		{"empty", "", English},
		{"mixed latin and devanagari", "ok भुगतान please", Hindi},
		{"mixed latin and kannada", "open ಕಾರ್ಟ್ now", Kannada},
		{"emoji only", "👍", English},
		{"other script", "привет", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestParse(t *testing.T) {
	l, ok := Parse("kn")
	assert.True(t, ok)
	assert.Equal(t, Kannada, l)

	_, ok = Parse("fr")
	assert.False(t, ok)
}
