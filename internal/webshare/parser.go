package webshare

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

// The service answers with small XML documents. The documents are not
// trusted to be well formed: a record block that cannot be decoded is
// skipped, never fatal to the surrounding response.

func newLenientDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	return dec
}

// parseCandidates extracts every usable <file> block from a search response.
// A block missing its <ident> is dropped; an unparsable <size> defaults to 0.
func parseCandidates(r io.Reader) []domain.SearchCandidate {
	dec := newLenientDecoder(r)

	var out []domain.SearchCandidate
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "file" {
			if c, ok := parseFileBlock(dec); ok {
				out = append(out, c)
			}
		}
	}
}

// parseFileBlock consumes tokens up to the closing </file> and assembles one
// candidate. A truncated or ident-less block reports ok=false.
func parseFileBlock(dec *xml.Decoder) (domain.SearchCandidate, bool) {
	var (
		c       domain.SearchCandidate
		field   string
		rawSize string
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			return domain.SearchCandidate{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			field = t.Name.Local
		case xml.CharData:
			switch field {
			case "name":
				c.Name += string(t)
			case "ident":
				c.Ident += string(t)
			case "size":
				rawSize += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == "file" {
				if c.Ident == "" {
					return domain.SearchCandidate{}, false
				}
				if n, err := strconv.ParseInt(strings.TrimSpace(rawSize), 10, 64); err == nil {
					c.SizeBytes = n
				}
				return c, true
			}
			field = ""
		}
	}
}

// firstField returns the character data of the first element named name,
// or "" when the element is absent or the document cannot be decoded.
func firstField(r io.Reader, name string) string {
	dec := newLenientDecoder(r)

	inField := false
	var value strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name {
				inField = true
			}
		case xml.CharData:
			if inField {
				value.Write(t)
			}
		case xml.EndElement:
			if inField && t.Name.Local == name {
				return value.String()
			}
		}
	}
}
