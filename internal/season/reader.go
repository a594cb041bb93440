package season

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/core/xml"
)

// Options controls roster shaping while reading.
type Options struct {
	// IncludeInactive keeps players whose gp is zero or missing.
	IncludeInactive bool
	// AbbreviateNames turns "Tristan Bissetta" into "T. Bissetta".
	AbbreviateNames bool
}

// unsortedUniform is where players without a numeric uniform sort.
const unsortedUniform = 999

var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// ReadFile reads one team feed from path. Files ending in .xz (or carrying
// the xz magic) are decompressed first.
func ReadFile(path string, opts Options) (*Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, caperrors.NewIO("open", path, err)
	}
	defer f.Close()

	team, err := Read(f, path, opts)
	if err != nil {
		return nil, err
	}
	team.Source = path
	return team, nil
}

// Read parses a team feed from r. name is the source path; its base name is
// used as the team id when the feed has none.
func Read(r io.Reader, name string, opts Options) (*Team, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, caperrors.NewIO("read", name, err)
	}

	if strings.HasSuffix(strings.ToLower(name), ".xz") || bytes.HasPrefix(data, xzMagic) {
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, caperrors.NewIO("read", name, caperrors.Wrap(err, "xz reader"))
		}
		if data, err = io.ReadAll(xzr); err != nil {
			return nil, caperrors.NewIO("read", name, caperrors.Wrap(err, "xz decompress"))
		}
	}

	if v := xml.Validate(data); !v.Valid {
		pe := caperrors.NewParse("XML", name, v.Errors[0].Message)
		return nil, pe
	}

	doc, err := xml.Parse(data)
	if err != nil {
		pe := caperrors.NewParse("XML", name, err.Error())
		pe.Err = err
		return nil, pe
	}

	teamNode, err := doc.XPathFirst("//team")
	if err != nil {
		return nil, err
	}
	if teamNode == nil {
		return nil, caperrors.NewParse("XML", name, "no <team> element")
	}

	team := &Team{
		Name:     strings.TrimSpace(teamNode.Attr("name")),
		ID:       strings.TrimSpace(teamNode.Attr("id")),
		Date:     strings.TrimSpace(doc.Root().Attr("date")),
		Totals:   collectStats(teamNode.Child("totals")),
		Opponent: collectStats(teamNode.Child("opponent")),
	}
	if team.Date == "" {
		team.Date = strings.TrimSpace(teamNode.Attr("date"))
	}
	if team.ID == "" {
		team.ID = baseID(name)
	}
	team.Wins, team.Losses = parseRecord(teamNode.Attr("record"))
	team.ConfWins, team.ConfLosses = parseRecord(teamNode.Attr("confrecord"))

	players, err := teamNode.XPath(".//player")
	if err != nil {
		return nil, err
	}
	for _, pn := range players {
		p := Player{
			Name:     strings.TrimSpace(pn.Attr("name")),
			Uniform:  strings.TrimSpace(pn.FirstAttr("uni", "uniform")),
			Position: strings.TrimSpace(pn.FirstAttr("pos", "position")),
			Class:    strings.TrimSpace(pn.FirstAttr("year", "class")),
			Bats:     strings.TrimSpace(pn.Attr("bats")),
			Throws:   strings.TrimSpace(pn.Attr("throws")),
			LastGame: atoi(pn.Attr("lastgame")),
			Stats:    collectStats(pn),
		}
		if !opts.IncludeInactive && atoi(pn.Attr("gp")) <= 0 {
			continue
		}
		if opts.AbbreviateNames {
			p.Name = AbbreviateName(p.Name)
		}
		team.Players = append(team.Players, p)
	}

	sort.SliceStable(team.Players, func(i, j int) bool {
		return uniformKey(team.Players[i].Uniform) < uniformKey(team.Players[j].Uniform)
	})

	return team, nil
}

// collectStats gathers gp/gs from the element itself and every attribute of
// its child elements, keyed by lower-cased element name.
func collectStats(n *xml.Node) StatBlock {
	block := StatBlock{}
	if n == nil {
		return block
	}
	for _, attr := range []string{"gp", "gs"} {
		if v, ok := n.LookupAttr(attr); ok {
			block.Set(GroupGames, attr, v)
		}
	}
	for _, child := range n.Children() {
		group := strings.ToLower(child.Name())
		if _, ok := block[group]; !ok {
			block[group] = make(map[string]string)
		}
		for k, v := range child.Attributes() {
			block.Set(group, k, v)
		}
	}
	return block
}

// AbbreviateName shortens "First Middle Last" to "F. Last". Single-word
// names are returned unchanged.
func AbbreviateName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return strings.TrimSpace(name)
	}
	first := []rune(parts[0])
	return string(first[0]) + ". " + parts[len(parts)-1]
}

// parseRecord reads "W-L" or "W-L-T"; anything else is 0-0.
func parseRecord(s string) (wins, losses int) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	l, errL := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errL != nil || w < 0 || l < 0 {
		return 0, 0
	}
	return w, l
}

func baseID(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range []string{".xml.xz", ".xz", ".xml"} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func uniformKey(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return unsortedUniform
	}
	return n
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
