package plans

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// Compiled once; the expressions are constant.
var (
	planExpr    = xpath.MustCompile("//plan")
	trackExpr   = xpath.MustCompile("track")
	readingExpr = xpath.MustCompile("reading")
)

// LoadXML reads plan definitions of the form
//
//	<plans>
//	  <plan id="salmos-proverbios" days="31">
//	    <title>Salmos y Proverbios</title>
//	    <description>…</description>
//	    <track><reading>Salmos 1-31</reading></track>
//	    <track><reading>Proverbios</reading></track>
//	  </plan>
//	</plans>
//
// Readings placed directly under <plan> form a single track.
func LoadXML(r io.Reader) ([]*Plan, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("plan XML", "", err.Error())
	}

	nodes := xmlquery.QuerySelectorAll(doc, planExpr)
	if len(nodes) == 0 {
		return nil, errors.NewParse("plan XML", "", "no <plan> elements")
	}

	out := make([]*Plan, 0, len(nodes))
	for _, n := range nodes {
		p, err := planFromNode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func planFromNode(n *xmlquery.Node) (*Plan, error) {
	id := n.SelectAttr("id")
	days, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr("days")))
	if err != nil {
		return nil, errors.NewParse("plan XML", id, "days attribute must be a number")
	}

	var tracks [][]string
	for _, t := range xmlquery.QuerySelectorAll(n, trackExpr) {
		if readings := readingsOf(t); len(readings) > 0 {
			tracks = append(tracks, readings)
		}
	}
	if direct := readingsOf(n); len(direct) > 0 {
		tracks = append(tracks, direct)
	}

	return NewPlan(id, childText(n, "title"), childText(n, "description"), days, tracks...)
}

func readingsOf(n *xmlquery.Node) []string {
	var out []string
	for _, r := range xmlquery.QuerySelectorAll(n, readingExpr) {
		if s := strings.TrimSpace(r.InnerText()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func childText(n *xmlquery.Node, name string) string {
	if c := n.SelectElement(name); c != nil {
		return strings.TrimSpace(c.InnerText())
	}
	return ""
}

// LoadCatalog returns the built-in plans plus those defined in the XML file
// at path. A missing file adds nothing.
func LoadCatalog(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	custom, err := LoadXML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "plans file %s", path)
	}
	for _, p := range custom {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}
