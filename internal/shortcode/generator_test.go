package shortcode_test

import (
	"regexp"
	"testing"

	"github.com/avklimov/url-shortener/internal/shortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeRegexp = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// TestGenerate_Format проверяет длину и алфавит сгенерированного кода
func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := shortcode.Generate(nil)
		require.NoError(t, err)
		assert.Regexp(t, codeRegexp, code)
	}
}

// TestGenerate_AvoidsExisting проверяет, что код не совпадает с занятыми
func TestGenerate_AvoidsExisting(t *testing.T) {
	existing := make(map[string]struct{})

	// Каждый новый код пополняет занятое множество
	for i := 0; i < 500; i++ {
		code, err := shortcode.Generate(existing)
		require.NoError(t, err)

		_, taken := existing[code]
		assert.False(t, taken, "сгенерирован занятый код: %s", code)
		existing[code] = struct{}{}
	}

	assert.Len(t, existing, 500)
}
