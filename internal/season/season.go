// Package season holds the parsed form of a team season-statistics feed and
// the reader that builds it from XML.
package season

import "strings"

// Stat groups as they appear as child elements of a player, the team
// totals, or the opponent totals.
const (
	GroupGames       = "games" // gp/gs attributes on the owning element itself
	GroupHitting     = "hitting"
	GroupFielding    = "fielding"
	GroupHSitSummary = "hsitsummary"
	GroupPitching    = "pitching"
	GroupPSitSummary = "psitsummary"
)

// StatBlock maps a stat group to its raw attribute values. Values are kept as
// the source text; pair stats stay in their "made,opp" form.
type StatBlock map[string]map[string]string

// Set records a raw value, creating the group as needed.
func (b StatBlock) Set(group, attr, value string) {
	g, ok := b[group]
	if !ok {
		g = make(map[string]string)
		b[group] = g
	}
	g[attr] = value
}

// Get returns the raw value of group.attr and whether it was present.
func (b StatBlock) Get(group, attr string) (string, bool) {
	g, ok := b[group]
	if !ok {
		return "", false
	}
	v, ok := g[attr]
	return v, ok
}

// Has reports whether the group element was present at all.
func (b StatBlock) Has(group string) bool {
	_, ok := b[group]
	return ok
}

// Player is one roster entry.
type Player struct {
	Name     string
	Uniform  string
	Position string
	Class    string // FR, SO, JR, SR as given in the feed
	Bats     string
	Throws   string
	LastGame int
	Stats    StatBlock
}

// HasPitching reports whether the player carried a pitching element.
func (p Player) HasPitching() bool {
	return p.Stats.Has(GroupPitching)
}

// IsPitcher classifies the player: position "P" or any pitching element.
func (p Player) IsPitcher() bool {
	return strings.EqualFold(strings.TrimSpace(p.Position), "P") || p.HasPitching()
}

// Team is one parsed feed.
type Team struct {
	Name       string
	ID         string
	Date       string // raw feed date, e.g. "2/15/2026"
	Wins       int
	Losses     int
	ConfWins   int
	ConfLosses int
	Totals     StatBlock // team totals (fielding/pitching aggregates)
	Opponent   StatBlock // "against" totals
	Players    []Player
	Source     string // path the team was read from, if any
}
