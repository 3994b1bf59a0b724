// Package lang holds the localized strings shown to players: flag event chat
// lines, capture announcements, HUD labels and configuration descriptions.
//
// Locales are YAML files embedded in the binary and registered into an
// x/text catalog; a Printer formats messages for one negotiated locale.
package lang

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ctf-arena/internal/core"
)

// BaseLocale is the fallback locale. Every key of another locale must also
// exist in it.
const BaseLocale = "en"

// Key identifies a message.
type Key string

// Message keys.
const (
	FlagTaken    Key = "flag_taken"    // player, flag team
	FlagDropped  Key = "flag_dropped"  // player, flag team
	FlagReturned Key = "flag_returned" // player, flag team

	CueScores        Key = "cue.scores" // scoring team
	CueTakesLead     Key = "cue.takes_lead"
	CueIncreasesLead Key = "cue.increases_lead"
	CueDominating    Key = "cue.dominating"
	CueWinsMatch     Key = "cue.wins_match"

	HUDFlagState Key = "hud.flag_state" // team, state

	ConfigDropCommand Key = "config.drop_command"
	ConfigWinCount    Key = "config.win_count"

	UIScore     Key = "ui.score"
	UIMatchOver Key = "ui.match_over" // winning team
)

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is the set of loaded locales.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// Load reads the embedded locales.
func Load() (*Catalog, error) {
	return LoadFS(localesFS)
}

// MustLoad is Load for package initialization; it panics on a broken build.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads locales/*.yaml from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("lang: glob locales: %w", err)
	}
	sort.Strings(paths)

	base, err := language.Parse(BaseLocale)
	if err != nil {
		return nil, fmt.Errorf("lang: base locale: %w", err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(base))
	var tags []language.Tag
	var baseKeys map[string]string
	others := make(map[string]map[string]string)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("lang: read %s: %w", path, err)
		}

		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("lang: parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return nil, fmt.Errorf("lang: %s: locale %q: %w", path, file.Locale, err)
		}

		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("lang: %s: key %q: %w", path, key, err)
			}
		}

		if tag == base {
			baseKeys = file.Messages
			tags = append([]language.Tag{tag}, tags...)
		} else {
			tags = append(tags, tag)
			others[path] = file.Messages
		}
	}

	if baseKeys == nil {
		return nil, fmt.Errorf("lang: base locale %s missing", BaseLocale)
	}
	for _, path := range paths {
		var missing []string
		for key := range others[path] {
			if _, ok := baseKeys[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, fmt.Errorf("lang: %s: keys not in base locale %s: %s",
				path, BaseLocale, strings.Join(missing, ", "))
		}
	}

	return &Catalog{
		builder: builder,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Supported returns the loaded locales, base locale first.
func (c *Catalog) Supported() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Printer returns a printer for the closest supported match of locale.
// Unknown or empty locales fall back to the base locale.
func (c *Catalog) Printer(locale string) *Printer {
	tag := c.tags[0]
	if requested, err := language.Parse(locale); err == nil {
		_, idx, conf := c.matcher.Match(requested)
		if conf != language.No {
			tag = c.tags[idx]
		}
	}

	return &Printer{
		tag:   tag,
		p:     message.NewPrinter(tag, message.Catalog(c.builder)),
		title: cases.Title(tag),
	}
}

// Printer formats messages for one locale.
type Printer struct {
	tag   language.Tag
	p     *message.Printer
	title cases.Caser
}

// Tag returns the printer's locale.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Text formats the message for key with args.
func (p *Printer) Text(key Key, args ...any) string {
	return p.p.Sprintf(string(key), args...)
}

// Team returns the localized team name as used inside sentences.
func (p *Printer) Team(t core.Team) string {
	return p.Text(Key("team." + t.Key()))
}

// TeamTitle returns the localized team name in title case.
func (p *Printer) TeamTitle(t core.Team) string {
	return p.title.String(p.Team(t))
}

// State returns the localized name of a flag state ("Home", "Taken", ...).
func (p *Printer) State(name string) string {
	return p.Text(Key("state." + strings.ToLower(name)))
}
