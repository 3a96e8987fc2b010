package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FieldBlock is the raw per-candidate extraction result: field name to the
// text values matched inside one item block. Single-valued fields carry one
// element when present and no key at all when their selector did not match.
type FieldBlock map[string][]string

// First returns the first value for a field and whether the field is present.
func (b FieldBlock) First(name string) (string, bool) {
	vals, ok := b[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// ExtractBlocks parses decoded markup and runs the profile's selectors,
// returning one FieldBlock per item in document order. A page with zero item
// matches yields an empty slice.
func ExtractBlocks(markup string, p Profile) ([]FieldBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	blocks := []FieldBlock{}
	doc.Find(p.Item).Each(func(_ int, item *goquery.Selection) {
		block := FieldBlock{}

		for name, selector := range p.Fields {
			match := item.Find(selector).First()
			if match.Length() == 0 {
				continue
			}
			block[name] = []string{strings.TrimSpace(match.Text())}
		}

		for name, selector := range p.Lists {
			vals := []string{}
			item.Find(selector).Each(func(_ int, el *goquery.Selection) {
				vals = append(vals, strings.TrimSpace(el.Text()))
			})
			block[name] = vals
		}

		blocks = append(blocks, block)
	})

	return blocks, nil
}
