package capfile

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/internal/season"
)

// Assignment is one slot write produced by the mapper.
type Assignment struct {
	Index int
	Value uint16
}

// Slots is a record's stat area.
type Slots [SlotCount]uint16

// Apply stores each assignment.
func (s *Slots) Apply(as []Assignment) {
	for _, a := range as {
		s[a.Index] = a.Value
	}
}

// Put writes the slots little-endian into dst, which must hold SlotAreaSize bytes.
func (s *Slots) Put(dst []byte) {
	for i, v := range s {
		binary.LittleEndian.PutUint16(dst[2*i:], v)
	}
}

// ReadSlots decodes SlotAreaSize little-endian bytes.
func ReadSlots(src []byte) Slots {
	var s Slots
	for i := range s {
		s[i] = binary.LittleEndian.Uint16(src[2*i:])
	}
	return s
}

// Map returns the slot writes for one raw attribute under view v. Attributes
// the view does not map yield nothing.
func Map(v View, group, attr, raw string) ([]Assignment, error) {
	f, ok := FieldsFor(v).Lookup(group, attr)
	if !ok {
		return nil, nil
	}
	return f.Encode(raw)
}

// Encode converts a raw attribute value per the field's kind.
func (f Field) Encode(raw string) ([]Assignment, error) {
	switch f.Kind {
	case KindPair:
		made, opp, err := ParsePair(raw)
		if err != nil {
			return nil, caperrors.NewPairField(f.Group, f.Attr, raw)
		}
		return []Assignment{{f.Index, opp}, {f.Aux, made}}, nil

	case KindDuplicated:
		v := ParseScalar(raw)
		return []Assignment{{f.Index, v}, {f.Aux, v}}, nil

	case KindScaled:
		v := ParseScalar(raw)
		return []Assignment{{f.Index, v}, {f.Aux, clamp(uint64(v) << f.Shift)}}, nil

	case KindInnings:
		outs, err := ParseInnings(raw)
		if err != nil {
			return nil, caperrors.NewInnings(f.Group, f.Attr, raw)
		}
		return []Assignment{{f.Index, outs}}, nil

	default:
		return []Assignment{{f.Index, ParseScalar(raw)}}, nil
	}
}

// EncodeStats maps every attribute of block that view v knows about. Fields
// are visited in table order so the first malformed field reported is stable.
func EncodeStats(v View, block season.StatBlock) (Slots, error) {
	var slots Slots
	for _, f := range FieldsFor(v).Fields() {
		raw, ok := block.Get(f.Group, f.Attr)
		if !ok {
			continue
		}
		as, err := f.Encode(raw)
		if err != nil {
			return Slots{}, err
		}
		slots.Apply(as)
	}
	return slots, nil
}

func clamp(v uint64) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// parseInt reads a decimal integer clamped to the u16 range. ok is false for
// text that is not an integer at all.
func parseInt(s string) (v uint16, ok bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			if strings.HasPrefix(s, "-") {
				return 0, true
			}
			return 0xFFFF, true
		}
		return 0, false
	}
	if n < 0 {
		return 0, true
	}
	return clamp(uint64(n)), true
}

// ParseScalar reads a count. Missing, negative or non-numeric values are 0;
// values above 65535 are 65535.
func ParseScalar(s string) uint16 {
	v, _ := parseInt(s)
	return v
}

// ParsePair splits a "made,opp" value. Blank values are (0, 0).
func ParsePair(s string) (made, opp uint16, err error) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, caperrors.ErrInvalidInput
	}
	made, okMade := parseInt(parts[0])
	opp, okOpp := parseInt(parts[1])
	if !okMade || !okOpp {
		return 0, 0, caperrors.ErrInvalidInput
	}
	return made, opp, nil
}

// ParseInnings converts innings pitched in thirds notation ("10.2" is ten
// innings and two outs) to an exact out count. Blank values are 0.
func ParseInnings(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	var thirds uint64
	if hasFrac {
		switch frac {
		case "0", "":
		case "1":
			thirds = 1
		case "2":
			thirds = 2
		default:
			return 0, caperrors.ErrInvalidInput
		}
	}
	if whole == "" {
		if !hasFrac || frac == "" {
			return 0, caperrors.ErrInvalidInput
		}
		return uint16(thirds), nil
	}
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, caperrors.ErrInvalidInput
		}
	}
	n, err := strconv.ParseUint(whole, 10, 64)
	if err != nil || n > 0xFFFF {
		return 0xFFFF, nil
	}
	return clamp(n*3 + thirds), nil
}
