package capfile

import (
	"strings"

	"github.com/FocuswithJustin/capgen/core/encoding"
	"github.com/FocuswithJustin/capgen/internal/season"
)

// Class-year bits of record byte 22.
const (
	ClassFreshman  byte = 0x08
	ClassSophomore byte = 0x10
	ClassJunior    byte = 0x20
	ClassSenior    byte = 0x40

	classMask = ClassFreshman | ClassSophomore | ClassJunior | ClassSenior
)

// Handedness bits of record byte 22. Right/right is all zero.
const (
	BatsLeft   byte = 0x01
	BatsSwitch byte = 0x02
	ThrowsLeft byte = 0x04

	maxLastGame = 0xFF
)

var classBits = map[string]byte{
	"FR": ClassFreshman,
	"SO": ClassSophomore,
	"JR": ClassJunior,
	"SR": ClassSenior,
}

// ClassBits maps a class year such as "JR", "Jr.", "R-So" or "Senior" to its
// flag bit; unknown years are 0.
func ClassBits(year string) byte {
	y := strings.ToUpper(strings.TrimSpace(year))
	y = strings.TrimPrefix(y, "R-")
	y = strings.TrimPrefix(y, "RS-")
	y = strings.Trim(y, ". ")
	switch y {
	case "FRESHMAN":
		y = "FR"
	case "SOPHOMORE":
		y = "SO"
	case "JUNIOR":
		y = "JR"
	case "SENIOR":
		y = "SR"
	}
	return classBits[y]
}

// HandBits maps bats/throws markers to flag bits.
func HandBits(bats, throws string) byte {
	var b byte
	switch strings.ToUpper(strings.TrimSpace(bats)) {
	case "L":
		b |= BatsLeft
	case "S", "B":
		b |= BatsSwitch
	}
	if strings.EqualFold(strings.TrimSpace(throws), "L") {
		b |= ThrowsLeft
	}
	return b
}

// ViewOf classifies a player as pitcher or hitter.
func ViewOf(p season.Player) View {
	if p.IsPitcher() {
		return ViewPitcher
	}
	return ViewHitter
}

// recordHead is the 24-byte prefix shared by player records and the
// opponent pseudo-record.
type recordHead struct {
	teamID   string
	name     string
	flags    byte
	lastGame byte
}

func putRecord(dst []byte, h recordHead, slots *Slots) {
	encoding.PutASCII(dst[recTeamIDOff:recTeamIDOff+recTeamIDLen], h.teamID)
	dst[recTeamIDOff+recTeamIDLen] = 0
	encoding.PutASCII(dst[recNameOff:recNameOff+recNameLen], h.name)
	dst[recNameOff+recNameLen] = 0
	dst[recFlagsOff] = h.flags
	dst[recLastGameOff] = h.lastGame
	slots.Put(dst[SlotBase : SlotBase+SlotAreaSize])
}

// EncodePlayer builds one 216-byte player record.
func EncodePlayer(teamID string, p season.Player) ([]byte, error) {
	slots, err := EncodeStats(ViewOf(p), p.Stats)
	if err != nil {
		return nil, err
	}

	lastGame := p.LastGame
	if lastGame < 0 {
		lastGame = 0
	}
	if lastGame > maxLastGame {
		lastGame = maxLastGame
	}

	rec := make([]byte, RecordSize)
	putRecord(rec, recordHead{
		teamID:   teamID,
		name:     p.Name,
		flags:    ClassBits(p.Class) | HandBits(p.Bats, p.Throws),
		lastGame: byte(lastGame),
	}, &slots)
	return rec, nil
}
