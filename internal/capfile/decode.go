package capfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/core/encoding"
)

// Record is a decoded player record or the opponent pseudo-record.
type Record struct {
	TeamID   string
	Name     string
	Flags    byte
	LastGame byte
	Slots    Slots
}

// Class returns the class year encoded in Flags, or "".
func (r Record) Class() string {
	switch r.Flags & classMask {
	case ClassFreshman:
		return "FR"
	case ClassSophomore:
		return "SO"
	case ClassJunior:
		return "JR"
	case ClassSenior:
		return "SR"
	}
	return ""
}

// Hands returns the bats/throws markers encoded in Flags.
func (r Record) Hands() (bats, throws string) {
	bats, throws = "R", "R"
	switch {
	case r.Flags&BatsSwitch != 0:
		bats = "S"
	case r.Flags&BatsLeft != 0:
		bats = "L"
	}
	if r.Flags&ThrowsLeft != 0 {
		throws = "L"
	}
	return bats, throws
}

// Header is a decoded CAP header.
type Header struct {
	TeamName    string
	TeamID      string
	Date        string
	PlayerCount int
	RecordSize  int
	Wins        int
	Losses      int
	ConfWins    int
	ConfLosses  int
	IndP        int
	SBA         int
	CSB         int
	SHO         int
	CBO         int
	Opponent    Record
}

// File is a decoded CAP file.
type File struct {
	Header  Header
	Records []Record
}

func decodeRecord(b []byte) Record {
	return Record{
		TeamID:   encoding.TrimField(b[recTeamIDOff : recTeamIDOff+recTeamIDLen]),
		Name:     encoding.TrimField(b[recNameOff : recNameOff+recNameLen]),
		Flags:    b[recFlagsOff],
		LastGame: b[recLastGameOff],
		Slots:    ReadSlots(b[SlotBase : SlotBase+SlotAreaSize]),
	}
}

// Decode parses a CAP file. The body must be a whole number of records.
func Decode(data []byte) (*File, error) {
	if len(data) < HeaderSize {
		return nil, caperrors.NewParse("CAP", "", fmt.Sprintf("%d bytes is shorter than the %d-byte header", len(data), HeaderSize))
	}
	body := len(data) - HeaderSize
	if body%RecordSize != 0 {
		return nil, caperrors.NewParse("CAP", "", fmt.Sprintf("body of %d bytes is not a multiple of %d", body, RecordSize))
	}

	u16 := func(off int) int { return int(binary.LittleEndian.Uint16(data[off:])) }
	f := &File{
		Header: Header{
			TeamName:    encoding.TrimField(data[hdrTeamNameOff : hdrTeamNameOff+hdrTeamNameLen]),
			TeamID:      encoding.TrimField(data[hdrTeamIDOff : hdrTeamIDOff+hdrTeamIDLen]),
			Date:        encoding.TrimField(data[hdrDateOff : hdrDateOff+hdrDateLen]),
			PlayerCount: u16(hdrPlayerCountOff),
			RecordSize:  u16(hdrRecordSizeOff),
			Wins:        u16(hdrWinsOff),
			Losses:      u16(hdrLossesOff),
			ConfWins:    u16(hdrConfWinsOff),
			ConfLosses:  u16(hdrConfLossesOff),
			IndP:        u16(hdrIndPOff),
			SBA:         u16(hdrSBAOff),
			CSB:         u16(hdrCSBOff),
			SHO:         u16(hdrSHOOff),
			CBO:         u16(hdrCBOOff),
			Opponent:    decodeRecord(data[hdrOpponentOff:HeaderSize]),
		},
	}

	for off := HeaderSize; off < len(data); off += RecordSize {
		f.Records = append(f.Records, decodeRecord(data[off:off+RecordSize]))
	}
	return f, nil
}

// slotLabel names every meaning a slot can have across views.
func slotLabel(index int) string {
	seen := map[string]bool{}
	var labels []string
	for _, fs := range []*FieldSet{HitterFields, PitcherFields, OpponentFields} {
		for _, f := range fs.Owners(index) {
			l := f.Label(index)
			if fs.View() == ViewOpponent && f.Views == ViewOpponent {
				l += "[opp]"
			}
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	if len(labels) == 0 {
		return fmt.Sprintf("(unmapped:%d)", index)
	}
	return strings.Join(labels, ", ")
}

// Dump writes a human-readable listing of f, marking non-zero slots.
func Dump(w io.Writer, name string, size int, f *File) error {
	sep := strings.Repeat("=", 80)
	var b strings.Builder
	h := f.Header

	fmt.Fprintf(&b, "%s\nFILE: %s\nTotal size: %d bytes\n%s\n", sep, name, size, sep)
	fmt.Fprintf(&b, "\n--- HEADER (bytes 0-%d) ---\n", HeaderSize-1)
	fmt.Fprintf(&b, "  Team Name     : %q\n", h.TeamName)
	fmt.Fprintf(&b, "  Team ID       : %q\n", h.TeamID)
	fmt.Fprintf(&b, "  Date          : %q\n", h.Date)
	fmt.Fprintf(&b, "  Player Count  : %d\n", h.PlayerCount)
	fmt.Fprintf(&b, "  Record Size   : %d\n", h.RecordSize)
	fmt.Fprintf(&b, "  Record        : %d-%d (conf %d-%d)\n", h.Wins, h.Losses, h.ConfWins, h.ConfLosses)
	fmt.Fprintf(&b, "  Field INDP    : %d\n", h.IndP)
	fmt.Fprintf(&b, "  Field SBA/CSB : %d/%d\n", h.SBA, h.CSB)
	fmt.Fprintf(&b, "  Pitch SHO/CBO : %d/%d\n", h.SHO, h.CBO)

	fmt.Fprintf(&b, "\n  --- Opponent Record [%d:%d] ---\n", hdrOpponentOff, HeaderSize)
	fmt.Fprintf(&b, "  Name          : %q\n", h.Opponent.Name)
	fmt.Fprintf(&b, "  Type Flag     : 0x%02X\n", h.Opponent.Flags)
	writeSlots(&b, "    ", h.Opponent.Slots)

	fmt.Fprintf(&b, "\n--- PLAYER RECORDS (%d players) ---\n", len(f.Records))
	for i, r := range f.Records {
		bats, throws := r.Hands()
		class := r.Class()
		if class == "" {
			class = fmt.Sprintf("0x%02X", r.Flags&classMask)
		}
		fmt.Fprintf(&b, "\n  #%2d %q  class=%s  B/T=%s/%s  last_game=%d\n", i+1, r.Name, class, bats, throws, r.LastGame)
		writeSlots(&b, "      ", r.Slots)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSlots(b *strings.Builder, indent string, s Slots) {
	for i, v := range s {
		marker := ""
		if v != 0 {
			marker = " <--"
		}
		fmt.Fprintf(b, "%su16[%2d] = %5d  %s%s\n", indent, i, v, slotLabel(i), marker)
	}
}
