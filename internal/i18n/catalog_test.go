package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Translate(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"en", "de"}, c.Locales())
	assert.Equal(t, "Syntax", c.Translate("en", "criterium.syntax"))
	assert.Equal(t, "Fehlende Fakten", c.Translate("de", "criterium.missingFacts"))
	assert.Equal(t, "Fehlende Fakten", c.Translate("de-AT", "criterium.missingFacts"))
	assert.Equal(t, "3 fact(s) are missing.", c.Translate("en", "criterium.missingFacts.count", 3))
}

func TestCatalog_Fallback(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "Missing facts", c.Translate("fr", "criterium.missingFacts"))
	assert.Equal(t, "Missing facts", c.Translate("", "criterium.missingFacts"))
	assert.Equal(t, "no.such.key", c.Translate("de", "no.such.key"))
}

// 每种语言都必须覆盖英文的所有键，格式化参数也要一致
func TestCatalog_LocalesComplete(t *testing.T) {
	c := MustLoad()
	en := c.messages[DefaultLocale]
	for locale, msgs := range c.messages {
		for key, msg := range en {
			other, ok := msgs[key]
			if !assert.True(t, ok, "%s misses %s", locale, key) {
				continue
			}
			assert.Equal(t, countVerbs(msg), countVerbs(other), "%s: %s", locale, key)
		}
	}
}

func countVerbs(s string) int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' {
			n++
			i++
		}
	}
	return n
}
