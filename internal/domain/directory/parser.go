package directory

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectores del sitio: cada clínica ocupa dos <tr>; el primero trae nombre y
// link, el siguiente la dirección.
const (
	rowSelector      = `tr[valign="top"]`
	cellSelector     = "td.vetText"
	distanceSelector = ".distanceText"
	addressSelector  = "div.vetText"
	nextPageSelector = `a[title='Next Page']`
)

// Page es el resultado de parsear una página del directorio.
type Page struct {
	Listings []Listing
	HasNext  bool
	// Skipped cuenta filas sin nombre o sin link (se ignoran, no son error).
	Skipped int
}

// ParsePage extrae los listados de una página. base resuelve los links relativos.
func ParsePage(html string, base *url.URL) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("parse directory page: %w", err)
	}

	var out Page
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		l, ok := parseRow(row, base)
		if !ok {
			out.Skipped++
			return
		}
		out.Listings = append(out.Listings, l)
	})
	out.HasNext = doc.Find(nextPageSelector).Length() > 0
	return out, nil
}

func parseRow(row *goquery.Selection, base *url.URL) (Listing, bool) {
	cells := row.Find(cellSelector)

	nameCell := cells.Eq(0).Clone()
	nameCell.Find(distanceSelector).Remove()
	name := collapse(nameCell.Text())

	href, _ := cells.Eq(1).Find("a").First().Attr("href")
	href = strings.TrimSpace(href)

	if name == "" || href == "" {
		return Listing{}, false
	}

	link, err := resolve(base, href)
	if err != nil {
		return Listing{}, false
	}

	address := collapse(row.Next().Find(addressSelector).Text())

	return Listing{Name: name, Address: address, DetailLink: link}, true
}

func resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if base == nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
