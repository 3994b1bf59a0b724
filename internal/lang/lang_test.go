package lang

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

func TestPrinterEnglish(t *testing.T) {
	p := MustLoad().Printer("en")

	got := p.Text(FlagTaken, "bob", p.Team(core.TeamRed))
	if got != "bob has taken the red flag!" {
		t.Errorf("FlagTaken = %q", got)
	}

	got = p.Text(CueTakesLead, p.TeamTitle(core.TeamBlue))
	if got != "Blue team takes the lead!" {
		t.Errorf("CueTakesLead = %q", got)
	}

	got = p.Text(HUDFlagState, p.TeamTitle(core.TeamRed), p.State("Dropped"))
	if got != "Red flag: Dropped" {
		t.Errorf("HUDFlagState = %q", got)
	}
}

func TestPrinterNegotiation(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		locale string
		want   string
	}{
		{"de", "de"},
		{"de-AT", "de"},
		{"ru-RU", "ru"},
		{"en-GB", "en"},
		{"ja", "en"},
		{"", "en"},
		{"not a locale", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			p := c.Printer(tt.locale)
			base, _ := p.Tag().Base()
			if base.String() != tt.want {
				t.Errorf("Printer(%q).Tag() = %v, expected %s", tt.locale, p.Tag(), tt.want)
			}
		})
	}
}

func TestEveryLocaleHasEveryKey(t *testing.T) {
	keys := []Key{
		FlagTaken, FlagDropped, FlagReturned,
		CueScores, CueTakesLead, CueIncreasesLead, CueDominating, CueWinsMatch,
		HUDFlagState, ConfigDropCommand, ConfigWinCount, UIScore, UIMatchOver,
		"team.red", "team.blue", "state.home", "state.taken", "state.dropped",
	}

	c := MustLoad()
	for _, tag := range c.Supported() {
		p := c.Printer(tag.String())
		for _, k := range keys {
			if got := p.Text(k, "x", "y"); got == string(k) {
				t.Errorf("%s: key %q not translated", tag, k)
			}
		}
	}
}

func TestTeamTitle(t *testing.T) {
	p := MustLoad().Printer("ru")
	if got := p.TeamTitle(core.TeamBlue); got != "Синих" {
		t.Errorf("TeamTitle(Blue) = %q, expected %q", got, "Синих")
	}
}

func TestLoadFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de.yaml": {Data: []byte("locale: de\nmessages:\n  ui.score: Punkte\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Error("expected error without base locale")
	}
}

func TestLoadFSRejectsBadLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: \"!!\"\nmessages: {}\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Error("expected error for invalid locale tag")
	}
}

func TestLoadFSRejectsKeysMissingFromBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  ui.score: Score\n")},
		"locales/de.yaml": {Data: []byte("locale: de\nmessages:\n  ui.score: Punkte\n  ui.extra: Extra\n")},
	}
	_, err := LoadFS(fsys)
	if err == nil {
		t.Fatal("expected error for a key the base locale lacks")
	}
	if !strings.Contains(err.Error(), "ui.extra") {
		t.Errorf("error %q does not name the missing key", err)
	}
}

func TestLoadFSAllowsSubsetOfBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  ui.score: Score\n  ui.match_over: Over\n")},
		"locales/de.yaml": {Data: []byte("locale: de\nmessages:\n  ui.score: Punkte\n")},
	}
	c, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := c.Printer("de").Text(UIMatchOver); got != "Over" {
		t.Errorf("fallback UIMatchOver = %q, expected %q", got, "Over")
	}
}
