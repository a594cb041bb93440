package capfile

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/core/encoding"
	"github.com/FocuswithJustin/capgen/internal/season"
)

// FormatDate renders a feed date ("2/15/2026", "02/15/2026", "02/15/26") as
// MM/DD/YY. Anything else yields DefaultDate.
func FormatDate(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return DefaultDate
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return DefaultDate
		}
		n[i] = v
	}
	m, d, y := n[0], n[1], n[2]
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return DefaultDate
	}
	return fmt.Sprintf("%02d/%02d/%02d", m, d, y%100)
}

// EncodeHeader builds the 292-byte header for a team with playerCount
// records following it.
func EncodeHeader(team *season.Team, playerCount int) ([]byte, error) {
	if playerCount < 0 || playerCount > MaxPlayers {
		return nil, &caperrors.LimitError{What: "players", Count: playerCount, Max: MaxPlayers}
	}

	opp, err := EncodeStats(ViewOpponent, team.Opponent)
	if err != nil {
		return nil, caperrors.Wrap(err, "opponent totals")
	}

	h := make([]byte, HeaderSize)
	encoding.PutASCII(h[hdrTeamNameOff:hdrTeamNameOff+hdrTeamNameLen], team.Name)
	encoding.PutASCII(h[hdrTeamIDOff:hdrTeamIDOff+hdrTeamIDLen], team.ID)
	encoding.PutASCII(h[hdrDateOff:hdrDateOff+hdrDateLen], FormatDate(team.Date))

	put := func(off int, v uint16) { binary.LittleEndian.PutUint16(h[off:], v) }
	total := func(group, attr string) uint16 {
		raw, _ := team.Totals.Get(group, attr)
		return ParseScalar(raw)
	}

	put(hdrPlayerCountOff, uint16(playerCount))
	put(hdrRecordSizeOff, RecordSize)
	put(hdrWinsOff, clampInt(team.Wins))
	put(hdrLossesOff, clampInt(team.Losses))
	put(hdrConfWinsOff, clampInt(team.ConfWins))
	put(hdrConfLossesOff, clampInt(team.ConfLosses))
	put(hdrIndPOff, total(season.GroupFielding, "indp"))
	put(hdrSBAOff, total(season.GroupFielding, "sba"))
	put(hdrCSBOff, total(season.GroupFielding, "csb"))
	put(hdrSHOOff, total(season.GroupPitching, "sho"))
	put(hdrCBOOff, total(season.GroupPitching, "cbo"))

	putRecord(h[hdrOpponentOff:], recordHead{
		name:  OpponentName,
		flags: OpponentTypeByte,
	}, &opp)
	return h, nil
}

// Encode builds a complete CAP file: header followed by one record per player.
func Encode(team *season.Team) ([]byte, error) {
	header, err := EncodeHeader(team, len(team.Players))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+RecordSize*len(team.Players))
	out = append(out, header...)
	for i, p := range team.Players {
		rec, err := EncodePlayer(team.ID, p)
		if err != nil {
			return nil, caperrors.Wrapf(err, "player %d (%s)", i+1, p.Name)
		}
		out = append(out, rec...)
	}
	return out, nil
}

func clampInt(v int) uint16 {
	if v < 0 {
		return 0
	}
	return clamp(uint64(v))
}
