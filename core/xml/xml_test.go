package xml

import (
	"strings"
	"testing"
)

const teamXML = `<?xml version="1.0"?>
<bsgame date="2/15/2026">
	<team id="OM" name="Ole Miss">
		<player name="Ann Able" uni="1" pos="SS">
			<hitting ab="10" h="4"/>
		</player>
		<player name="Bea Baker" uni="2" pos="P">
			<Pitching ip="3.1"/>
		</player>
	</team>
</bsgame>`

// TestParseValidXML verifies parsing of well-formed XML.
func TestParseValidXML(t *testing.T) {
	doc, err := Parse([]byte(teamXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Parse returned nil document")
	}
	if got := doc.Root().Name(); got != "bsgame" {
		t.Errorf("Root().Name() = %q, want bsgame", got)
	}
}

// TestParseInvalidXML verifies error handling for malformed XML.
func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<team><player></team>"},
		{"mismatched tags", "<team></player>"},
		{"invalid chars", "<team>\x00</team>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.xml)); err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(`<team id="OM"/>`))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if got := doc.Root().Attr("id"); got != "OM" {
		t.Errorf("Attr(id) = %q, want OM", got)
	}
}

func TestValidate(t *testing.T) {
	if r := Validate([]byte(teamXML)); !r.Valid {
		t.Errorf("well-formed XML should pass: %v", r.Errors)
	}

	r := Validate([]byte(`<team><player></team>`))
	if r.Valid {
		t.Fatal("malformed XML should fail")
	}
	if len(r.Errors) != 1 || r.Errors[0].Message == "" {
		t.Errorf("expected one error with a message, got %+v", r.Errors)
	}
}

func TestValidateDeclaredCharset(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><team name="Caf` + "\xe9" + `"/>`)
	if r := Validate(data); !r.Valid {
		t.Errorf("declared charset should not fail validation: %v", r.Errors)
	}
}

func TestXPath(t *testing.T) {
	doc, err := Parse([]byte(teamXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	players, err := doc.XPath("//team/player")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("XPath returned %d players, want 2", len(players))
	}
	if got := players[1].Attr("name"); got != "Bea Baker" {
		t.Errorf("second player = %q", got)
	}

	team, err := doc.XPathFirst("//team")
	if err != nil || team == nil {
		t.Fatalf("XPathFirst(//team) = %v, %v", team, err)
	}

	hitting, err := team.XPath("player/hitting")
	if err != nil {
		t.Fatalf("relative XPath failed: %v", err)
	}
	if len(hitting) != 1 || hitting[0].Attr("h") != "4" {
		t.Errorf("relative XPath returned %d nodes", len(hitting))
	}
}

func TestXPathFirstNotFound(t *testing.T) {
	doc, err := Parse([]byte(teamXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	n, err := doc.XPathFirst("//opponent")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if n != nil {
		t.Error("XPathFirst should return nil when nothing matches")
	}
}

func TestXPathInvalidExpression(t *testing.T) {
	doc, err := Parse([]byte(`<team/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := doc.XPath("[invalid"); err == nil {
		t.Error("invalid XPath should return error")
	}
	if _, err := doc.XPathFirst("[invalid"); err == nil {
		t.Error("invalid XPath should return error")
	}
}

func TestNodeChildAndAttributes(t *testing.T) {
	doc, err := Parse([]byte(teamXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	players, _ := doc.XPath("//player")

	if players[0].Child("pitching") != nil {
		t.Error("hitter should have no pitching child")
	}
	if players[1].Child("pitching") == nil {
		t.Error("Child should match element names case-insensitively")
	}
	if got := len(players[0].Children()); got != 1 {
		t.Errorf("Children() = %d, want 1", got)
	}

	attrs := players[0].Attributes()
	if attrs["uni"] != "1" || attrs["pos"] != "SS" {
		t.Errorf("Attributes() = %v", attrs)
	}

	if _, ok := players[0].LookupAttr("year"); ok {
		t.Error("LookupAttr should report absent attribute")
	}
	if got := players[0].FirstAttr("position", "pos"); got != "SS" {
		t.Errorf("FirstAttr() = %q, want SS", got)
	}
	if got := players[0].FirstAttr("missing"); got != "" {
		t.Errorf("FirstAttr() = %q, want empty", got)
	}
}

func TestNilReceivers(t *testing.T) {
	var n *Node
	if n.Name() != "" || n.Text() != "" || n.Attr("x") != "" {
		t.Error("nil node accessors should return zero values")
	}
	if n.Children() != nil || n.Attributes() != nil || n.Child("x") != nil {
		t.Error("nil node should have no children or attributes")
	}
	if nodes, err := n.XPath("a"); nodes != nil || err != nil {
		t.Error("nil node XPath should return nothing")
	}

	var d *Document
	if d.Root() != nil {
		t.Error("nil document should have no root")
	}
	if nodes, err := d.XPath("//a"); nodes != nil || err != nil {
		t.Error("nil document XPath should return nothing")
	}
}

func TestRootWithoutElement(t *testing.T) {
	doc, err := Parse([]byte(`<?xml version="1.0"?><!-- empty -->`))
	if err != nil {
		t.Skipf("parser rejects element-less document: %v", err)
	}
	if doc.Root() != nil {
		t.Error("Root() should be nil without an element")
	}
}

func TestNodeText(t *testing.T) {
	doc, err := Parse([]byte(`<team><note>Season totals</note></team>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Root().Child("note").Text(); got != "Season totals" {
		t.Errorf("Text() = %q", got)
	}
}
