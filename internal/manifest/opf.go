package manifest

import (
	"encoding/xml"
	"time"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/pinzine/pinzine/internal/model"
)

// opfRoot is the document root of the package manifest.
type opfRoot struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
	Manifest         opfManifest `xml:"manifest"`
	Spine            opfSpine    `xml:"spine"`
	Tours            struct{}    `xml:"tours"`
	Guide            opfGuide    `xml:"guide"`
}

type opfMetadata struct {
	XmlnsDc  string     `xml:"xmlns:dc,attr"`
	XmlnsOpf string     `xml:"xmlns:opf,attr"`
	Dc       dcMetadata `xml:"dc-metadata"`
	X        xMetadata  `xml:"x-metadata"`
}

type dcMetadata struct {
	Title      string       `xml:"dc:title"`
	Language   string       `xml:"dc:language"`
	Identifier dcIdentifier `xml:"dc:identifier"`
	Creator    string       `xml:"dc:creator"`
	Source     string       `xml:"dc:source"`
	Date       dcDate       `xml:"dc:date"`
}

type dcIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type dcDate struct {
	Event string `xml:"opf:event,attr"`
	Value string `xml:",chardata"`
}

// xMetadata declares the mobipocket output type that makes kindlegen
// build a subscription magazine rather than a plain book.
type xMetadata struct {
	Output xOutput `xml:"output"`
}

type xOutput struct {
	ContentType string `xml:"content-type,attr"`
	Encoding    string `xml:"encoding,attr"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	Href      string `xml:"href,attr"`
	ID        string `xml:"id,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

type opfGuide struct {
	References []opfReference `xml:"reference"`
}

type opfReference struct {
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Href  string `xml:"href,attr"`
}

// buildOPF produces the package manifest. The spine reading order is
// the article input order. Images are deduplicated by filename across
// all articles: a duplicate manifest item is fatal to kindlegen, and
// two articles from the same site frequently embed the same image.
// The guide starts the displayed reading position at the TOC page,
// with per-article text references following in order.
func buildOPF(articles []model.Article, periodicalID, title string, published time.Time) ([]byte, error) {
	items := []opfItem{
		{Href: NCXFilename, ID: "ncx", MediaType: "application/x-dtbncx+xml"},
		{Href: TOCFilename, ID: "contents", MediaType: "application/xhtml+xml"},
	}
	references := []opfReference{
		{Title: "Beginning", Type: "start", Href: TOCFilename},
	}

	seenImages := set.New[string]()
	for _, article := range articles {
		references = append(references, opfReference{
			Title: article.Title,
			Type:  "text",
			Href:  article.Filename,
		})
		// The filename doubles as the manifest id: it is already
		// unique within the run, so inventing a separate id scheme
		// would only add a mapping to maintain.
		items = append(items, opfItem{
			Href:      article.Filename,
			ID:        article.Filename,
			MediaType: "application/xhtml+xml",
		})

		for _, image := range article.Images {
			if seenImages.Contains(image.LocalFilename) {
				continue
			}
			seenImages.Add(image.LocalFilename)
			items = append(items, opfItem{
				Href:      image.LocalFilename,
				ID:        image.LocalFilename,
				MediaType: image.ContentType,
			})
		}
	}

	root := opfRoot{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "2.0",
		UniqueIdentifier: "uid",
		Metadata: opfMetadata{
			XmlnsDc:  "http://purl.org/dc/elements/1.1/",
			XmlnsOpf: "http://www.idpf.org/2007/opf",
			Dc: dcMetadata{
				Title:      title,
				Language:   "en",
				Identifier: dcIdentifier{ID: "uid", Value: periodicalID},
				Creator:    "pinzine",
				Source:     "pinzine",
				Date:       dcDate{Event: "publication", Value: published.UTC().Format(time.RFC3339)},
			},
			X: xMetadata{
				Output: xOutput{
					ContentType: "application/x-mobipocket-subscription-magazine",
					Encoding:    "utf-8",
				},
			},
		},
		Manifest: opfManifest{Items: items},
		Spine: opfSpine{
			Toc: "ncx",
			ItemRefs: lo.Map(articles, func(a model.Article, _ int) opfItemRef {
				return opfItemRef{IDRef: a.Filename}
			}),
		},
		Guide: opfGuide{References: references},
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
