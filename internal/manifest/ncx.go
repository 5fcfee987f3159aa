package manifest

import (
	"encoding/xml"
	"fmt"

	"github.com/pinzine/pinzine/internal/model"
	"github.com/pinzine/pinzine/internal/normalize"
)

// NCX XML namespaces. The mbp namespace carries the per-article
// description and author annotations Kindle periodicals display in
// section listings.
const (
	ncxNamespace = "http://www.daisy.org/z3986/2005/ncx/"
	mbpNamespace = "http://mobipocket.com/ns/mbp"
)

// ncxRoot is the document root of the navigation map.
type ncxRoot struct {
	XMLName  xml.Name    `xml:"ncx"`
	Xmlns    string      `xml:"xmlns,attr"`
	XmlnsMbp string      `xml:"xmlns:mbp,attr"`
	Version  string      `xml:"version,attr"`
	Lang     string      `xml:"xml:lang,attr"`
	Head     ncxHead     `xml:"head"`
	DocTitle ncxDocTitle `xml:"docTitle"`
	NavMap   ncxNavMap   `xml:"navMap"`
}

type ncxHead struct {
	Metas []ncxMeta `xml:"meta"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxDocTitle struct {
	Text string `xml:"text"`
}

type ncxNavMap struct {
	Points []navPoint `xml:"navPoint"`
}

// navPoint is one entry in the hierarchical play order. Children nest
// the way the reading device expects: the periodical entry contains
// the section, the section contains the articles.
type navPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Class     string     `xml:"class,attr"`
	Label     navLabel   `xml:"navLabel"`
	Content   navContent `xml:"content"`
	Metas     []mbpMeta  `xml:"mbp:meta"`
	Children  []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

type mbpMeta struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// buildNCX produces the navigation map. Play order 1 is the table of
// contents page, order 2 the "Unread" section targeting the first
// article's top anchor, orders 3..N+2 the articles themselves. The
// first article entry also targets the top anchor so the device lands
// on the content start.
func buildNCX(articles []model.Article, periodicalID, title string) ([]byte, error) {
	root := ncxRoot{
		Xmlns:    ncxNamespace,
		XmlnsMbp: mbpNamespace,
		Version:  "2005-1",
		Lang:     "en",
		Head: ncxHead{Metas: []ncxMeta{
			{Name: "dtb:uid", Content: periodicalID},
			{Name: "dtb:depth", Content: "3"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		}},
		DocTitle: ncxDocTitle{Text: title},
	}

	if len(articles) > 0 {
		firstTop := articles[0].Filename + "#" + normalize.TopAnchor

		section := navPoint{
			ID:        "nav-2",
			PlayOrder: 2,
			Class:     "section",
			Label:     navLabel{Text: "Unread"},
			Content:   navContent{Src: firstTop},
		}

		for i, article := range articles {
			order := i + 3
			src := article.Filename
			if i == 0 {
				src = firstTop
			}

			point := navPoint{
				ID:        fmt.Sprintf("nav-%d", order),
				PlayOrder: order,
				Class:     "article",
				Label:     navLabel{Text: article.Title},
				Content:   navContent{Src: src},
			}
			if article.Description != "" {
				point.Metas = append(point.Metas, mbpMeta{Name: "description", Value: article.Description})
			}
			if article.Author != "" {
				point.Metas = append(point.Metas, mbpMeta{Name: "author", Value: article.Author})
			}
			section.Children = append(section.Children, point)
		}

		toc := navPoint{
			ID:        "nav-1",
			PlayOrder: 1,
			Class:     "periodical",
			Label:     navLabel{Text: "Table of Contents"},
			Content:   navContent{Src: TOCFilename},
			Children:  []navPoint{section},
		}
		root.NavMap.Points = []navPoint{toc}
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
