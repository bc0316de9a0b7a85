package i18n

import (
	"testing"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

func TestTranslations(t *testing.T) {
	if got := T(domain.LangEnglish, "chat.title"); got != "DriveSense Chat" {
		t.Errorf("en chat.title = %q", got)
	}
	if got := T(domain.LangArabic, "chat.title"); got != "محادثة درايف سنس" {
		t.Errorf("ar chat.title = %q", got)
	}
}

func TestFallbackToEnglishThenKey(t *testing.T) {
	// booking.confirmed exists in en only.
	if got := T(domain.LangArabic, "booking.confirmed"); got != "Booking confirmed at" {
		t.Errorf("fallback = %q", got)
	}
	if got := T(domain.LangEnglish, "no.such.key"); got != "no.such.key" {
		t.Errorf("missing key = %q", got)
	}
	if got := T(domain.Language("fr"), "chat.title"); got != "DriveSense Chat" {
		t.Errorf("unknown language = %q", got)
	}
}

func TestIsRTL(t *testing.T) {
	if IsRTL(domain.LangEnglish) {
		t.Error("en reported RTL")
	}
	if !IsRTL(domain.LangArabic) {
		t.Error("ar not reported RTL")
	}
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "excellent"},
		{90, "excellent"},
		{89, "good"},
		{75, "good"},
		{74, "attention"},
		{0, "attention"},
	}
	for _, tt := range tests {
		if got := ScoreBand(tt.score); got != tt.want {
			t.Errorf("ScoreBand(%d) = %q, want %q", tt.score, got, tt.want)
		}
		key := "results.score." + tt.want
		if got := T(domain.LangEnglish, key); got == key {
			t.Errorf("no label for band %q", tt.want)
		}
	}
}
