// Package capfile encodes season statistics into the fixed-layout CAP binary
// format read by the legacy scoring application, and decodes it back.
//
// A CAP file is a 292-byte header followed by one 216-byte record per player.
// Every record ends in 96 little-endian uint16 stat slots; slot i lives at
// byte 24+2*i of its record. The header embeds an "Opponents" pseudo-record
// built the same way from the team's against totals.
package capfile

// Record geometry.
const (
	HeaderSize   = 292
	RecordSize   = 216
	SlotCount    = 96
	SlotBase     = 24
	SlotAreaSize = SlotCount * 2

	// MaxPlayers is the largest roster the u16 header count can describe.
	MaxPlayers = 0xFFFF
)

// Player record fields (also the shape of the embedded opponent record).
const (
	recTeamIDOff   = 0
	recTeamIDLen   = 8
	recNameOff     = 9
	recNameLen     = 12
	recFlagsOff    = 22
	recLastGameOff = 23
)

// Header fields.
const (
	hdrTeamNameOff = 0
	hdrTeamNameLen = 20
	hdrTeamIDOff   = 21
	hdrTeamIDLen   = 8
	hdrDateOff     = 30
	hdrDateLen     = 8

	hdrPlayerCountOff = 40
	hdrRecordSizeOff  = 42
	hdrWinsOff        = 44
	hdrLossesOff      = 46
	hdrReserved48Off  = 48
	hdrConfWinsOff    = 50
	hdrConfLossesOff  = 52
	hdrReserved54Off  = 54
	hdrIndPOff        = 56
	hdrReserved58Off  = 58
	hdrSBAOff         = 60
	hdrCSBOff         = 62
	hdrSHOOff         = 64
	hdrCBOOff         = 66
	hdrPadOff         = 68
	hdrPadLen         = 8

	hdrOpponentOff = 76
)

// Opponent pseudo-record constants.
const (
	OpponentName     = "Opponents"
	OpponentTypeByte = 0x78
)

// DefaultDate is written when the feed date is missing or unreadable.
const DefaultDate = "01/01/00"

// SlotOffset returns the byte offset of slot index within a record.
func SlotOffset(index int) int {
	return SlotBase + 2*index
}
