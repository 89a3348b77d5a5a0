package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	for _, lang := range Languages() {
		assert.True(t, Supported(lang), lang)
	}
	assert.False(t, Supported("fr"))
	assert.False(t, Supported(""))
}

func TestTableFallback(t *testing.T) {
	assert.Equal(t, "ग्राहक", Table("hi")["customers"])
	assert.Equal(t, "ગ્રાહકો", Table("gu")["customers"])

	// unsupported language falls back to English
	assert.Equal(t, "Customers", Table("fr")["customers"])
}

func TestTableKeysAligned(t *testing.T) {
	en := Table("en")
	for _, lang := range Languages() {
		tbl := Table(lang)
		assert.Len(t, tbl, len(en), lang)
		for key := range en {
			assert.Contains(t, tbl, key, "%s missing %s", lang, key)
		}
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "डैशबोर्ड", T("hi", "dashboard"))
	assert.Equal(t, "Dashboard", T("fr", "dashboard"))
	assert.Equal(t, "no_such_key", T("hi", "no_such_key"))
}
