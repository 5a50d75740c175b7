package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog("zz-ZZ"); got != base {
		t.Fatalf("fallback locale = %s, want %s", got.Locale(), base.Locale())
	}
	if got := GetCatalog(""); got != base {
		t.Fatalf("empty locale = %s, want %s", got.Locale(), base.Locale())
	}
}

func TestGetCatalogMatchesRegionalFrench(t *testing.T) {
	cat := GetCatalog("fr-CA,fr;q=0.9,en;q=0.5")
	if got := cat.Format("PERMISSION_DENIED", nil); got != "Seul un juge peut faire cela." {
		t.Fatalf("message = %q, want french", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog(language.German, map[Code]string{
		"code": "hallo {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if got := cat.Format("code", map[string]string{"Name": "Ana"}); got != "hallo Ana" {
		t.Fatalf("message = %q, want hallo Ana", got)
	}
	if got := cat.Format("code", nil); got != "hallo " {
		t.Fatalf("message = %q, want empty substitution", got)
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUSMessages {
		if _, ok := frFRMessages[code]; !ok {
			t.Errorf("fr-FR missing %s", code)
		}
	}
	for code := range frFRMessages {
		if _, ok := enUSMessages[code]; !ok {
			t.Errorf("en-US missing %s", code)
		}
	}
}
