package capfile

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/capgen/internal/season"
)

// View selects which meaning a record gives the shared slot ranges 36-66 and
// 86-95. Individual players are encoded as hitters or pitchers; the header's
// opponent block uses the opponent view.
type View uint8

const (
	ViewHitter View = 1 << iota
	ViewPitcher
	ViewOpponent
)

const (
	anyView     = ViewHitter | ViewPitcher | ViewOpponent
	playerViews = ViewHitter | ViewPitcher
	pitchViews  = ViewPitcher | ViewOpponent
	hitOppViews = ViewHitter | ViewOpponent
)

func (v View) String() string {
	var parts []string
	if v&ViewHitter != 0 {
		parts = append(parts, "hitter")
	}
	if v&ViewPitcher != 0 {
		parts = append(parts, "pitcher")
	}
	if v&ViewOpponent != 0 {
		parts = append(parts, "opponent")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Kind is how a raw attribute value becomes slot values.
type Kind int

const (
	// KindScalar writes one clamped integer to Index.
	KindScalar Kind = iota
	// KindPair splits "made,opp": opp goes to Index, made to Aux.
	KindPair
	// KindDuplicated writes the same clamped integer to Index and Aux.
	KindDuplicated
	// KindScaled writes v to Index and clamp(v << Shift) to Aux.
	KindScaled
	// KindInnings converts "W.F" innings to an out count at Index.
	KindInnings
)

var kindNames = [...]string{"scalar", "pair", "duplicated", "scaled", "innings"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field is one row of the slot table.
type Field struct {
	Group string
	Attr  string
	Kind  Kind
	Index int
	Aux   int  // second slot for pair, duplicated and scaled fields; -1 otherwise
	Shift uint // left shift for scaled fields
	Views View
}

// Slots returns every slot index the field writes.
func (f Field) Slots() []int {
	if f.Aux >= 0 {
		return []int{f.Index, f.Aux}
	}
	return []int{f.Index}
}

// Label names the field for dumps, e.g. "hsitsummary.w2outs(opp)".
func (f Field) Label(index int) string {
	name := f.Group + "." + f.Attr
	switch f.Kind {
	case KindPair:
		if index == f.Index {
			return name + "(opp)"
		}
		return name + "(made)"
	case KindScaled:
		if index == f.Aux {
			return fmt.Sprintf("%s<<%d", name, f.Shift)
		}
	case KindDuplicated:
		if index == f.Aux {
			return name + "(dup)"
		}
	}
	return name
}

func scalar(group, attr string, index int, views View) Field {
	return Field{Group: group, Attr: attr, Kind: KindScalar, Index: index, Aux: -1, Views: views}
}

// pair stores opp at oppIndex and made at oppIndex+1.
func pair(group, attr string, oppIndex int, views View) Field {
	return Field{Group: group, Attr: attr, Kind: KindPair, Index: oppIndex, Aux: oppIndex + 1, Views: views}
}

const (
	gGames = season.GroupGames
	gHit   = season.GroupHitting
	gField = season.GroupFielding
	gHSit  = season.GroupHSitSummary
	gPitch = season.GroupPitching
	gPSit  = season.GroupPSitSummary
)

// Table is the complete attribute-to-slot mapping. Rows sharing a
// group/attribute differ only in the views they apply to.
var Table = []Field{
	// games
	scalar(gGames, "gp", 0, hitOppViews),
	scalar(gGames, "gs", 1, hitOppViews),

	// core batting
	scalar(gHit, "ab", 2, anyView),
	scalar(gHit, "r", 3, anyView),
	scalar(gHit, "h", 4, anyView),
	scalar(gHit, "rbi", 5, anyView),
	scalar(gHit, "double", 6, anyView),
	scalar(gHit, "triple", 7, anyView),
	scalar(gHit, "hr", 8, anyView),
	scalar(gHit, "bb", 9, anyView),
	scalar(gHit, "sb", 10, anyView),
	scalar(gHit, "cs", 11, anyView),
	scalar(gHit, "hbp", 12, anyView),
	scalar(gHit, "sh", 13, playerViews),
	{Group: gHit, Attr: "sh", Kind: KindDuplicated, Index: 13, Aux: 26, Views: ViewOpponent},
	scalar(gHit, "sf", 14, anyView),
	scalar(gHit, "so", 16, anyView),
	scalar(gHit, "kl", 17, anyView),
	scalar(gHit, "gdp", 18, anyView),
	scalar(gHit, "hitdp", 19, anyView),
	scalar(gHit, "ibb", 21, anyView),
	scalar(gHit, "picked", 26, playerViews),

	// hitting situations
	scalar(gHSit, "rcherr", 22, anyView),
	scalar(gHSit, "rchfc", 23, anyView),
	scalar(gHSit, "ground", 24, anyView),
	scalar(gHSit, "fly", 25, anyView),

	// fielding
	scalar(gField, "po", 27, anyView),
	scalar(gField, "a", 28, anyView),
	scalar(gField, "e", 29, anyView),
	scalar(gField, "pb", 30, anyView),
	scalar(gField, "indp", 31, anyView),
	scalar(gField, "csb", 33, anyView),
	scalar(gField, "sba", 34, anyView),
	scalar(gField, "ci", 35, anyView),

	// pitching
	scalar(gPitch, "appear", 36, pitchViews),
	scalar(gPitch, "gs", 37, pitchViews),
	scalar(gPitch, "gf", 38, pitchViews),
	scalar(gPitch, "cg", 39, pitchViews),
	scalar(gPitch, "sho", 40, pitchViews),
	scalar(gPitch, "cbo", 41, pitchViews),
	scalar(gPitch, "bf", 42, pitchViews),
	scalar(gPitch, "ab", 43, pitchViews),
	scalar(gPitch, "win", 44, pitchViews),
	scalar(gPitch, "loss", 45, pitchViews),
	scalar(gPitch, "save", 46, pitchViews),
	{Group: gPitch, Attr: "ip", Kind: KindInnings, Index: 47, Aux: -1, Views: pitchViews},
	scalar(gPitch, "h", 48, pitchViews),
	scalar(gPitch, "r", 49, pitchViews),
	scalar(gPitch, "er", 50, pitchViews),
	scalar(gPitch, "bb", 51, pitchViews),
	scalar(gPitch, "so", 52, pitchViews),
	scalar(gPitch, "kl", 53, pitchViews),
	{Group: gPitch, Attr: "wp", Kind: KindScaled, Index: 54, Aux: 57, Shift: 8, Views: pitchViews},
	scalar(gPitch, "bk", 55, pitchViews),
	scalar(gPitch, "hbp", 56, pitchViews),
	scalar(gPitch, "double", 58, pitchViews),
	scalar(gPitch, "triple", 59, pitchViews),
	scalar(gPitch, "hr", 60, pitchViews),
	scalar(gPSit, "ground", 61, pitchViews),
	scalar(gPSit, "fly", 62, pitchViews),
	scalar(gPitch, "pickoff", 63, pitchViews),
	scalar(gPitch, "sha", 65, pitchViews),
	scalar(gPitch, "sfa", 66, pitchViews),

	// hitting situation pairs and counts
	pair(gHSit, "w2outs", 67, anyView),
	pair(gHSit, "wrunners", 69, anyView),
	pair(gHSit, "wrbiops", 71, anyView),
	pair(gHSit, "vsleft", 73, anyView),
	pair(gHSit, "rbi3rd", 75, anyView),
	pair(gHSit, "advops", 77, anyView),
	scalar(gHSit, "adv", 79, anyView),
	scalar(gHSit, "lob", 80, anyView),
	pair(gHSit, "leadoff", 81, anyView),
	pair(gHSit, "pinchhit", 83, anyView),
	scalar(gHSit, "rbi-2out", 85, anyView),

	// pitching situation pairs share 86-95 with the bases-loaded pair, which
	// pitchers never carry
	pair(gPSit, "leadoff", 86, pitchViews),
	pair(gPSit, "wrunners", 88, pitchViews),
	pair(gPSit, "vsleft", 90, pitchViews),
	pair(gHSit, "wloaded", 92, hitOppViews),
	pair(gPSit, "w2outs", 94, pitchViews),
}

// FieldSet is the table as seen through one view: at most one field per
// group/attribute, in table order.
type FieldSet struct {
	view   View
	fields []Field
	byKey  map[string]int
}

// Named views over Table.
var (
	HitterFields   = newFieldSet(ViewHitter)
	PitcherFields  = newFieldSet(ViewPitcher)
	OpponentFields = newFieldSet(ViewOpponent)
)

func fieldKey(group, attr string) string {
	return group + "." + attr
}

func newFieldSet(v View) *FieldSet {
	fs := &FieldSet{view: v, byKey: make(map[string]int)}
	for _, f := range Table {
		if f.Views&v == 0 {
			continue
		}
		key := fieldKey(f.Group, f.Attr)
		if _, dup := fs.byKey[key]; dup {
			panic(fmt.Sprintf("capfile: %s mapped twice in %s view", key, v))
		}
		fs.byKey[key] = len(fs.fields)
		fs.fields = append(fs.fields, f)
	}
	return fs
}

// FieldsFor returns the field set of a view.
func FieldsFor(v View) *FieldSet {
	switch v {
	case ViewPitcher:
		return PitcherFields
	case ViewOpponent:
		return OpponentFields
	default:
		return HitterFields
	}
}

// View returns the view this set was built for.
func (fs *FieldSet) View() View { return fs.view }

// Fields returns the set's fields in table order.
func (fs *FieldSet) Fields() []Field { return fs.fields }

// Lookup finds the field for group.attr.
func (fs *FieldSet) Lookup(group, attr string) (Field, bool) {
	i, ok := fs.byKey[fieldKey(group, attr)]
	if !ok {
		return Field{}, false
	}
	return fs.fields[i], true
}

// Owners returns every field in the set that writes slot index.
func (fs *FieldSet) Owners(index int) []Field {
	var out []Field
	for _, f := range fs.fields {
		for _, s := range f.Slots() {
			if s == index {
				out = append(out, f)
			}
		}
	}
	return out
}
