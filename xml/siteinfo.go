package xml

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/wikitree"
)

var siteInfoEnd = []byte("</siteinfo>")

// maxHeader bounds how far ReadSiteInfo looks for the end of <siteinfo>.
const maxHeader = 1 << 20

// ReadSiteInfo parses the <siteinfo> header at the start of a dump. It
// reads only as far as the closing tag.
func ReadSiteInfo(r io.Reader) (*wikitree.SiteInfo, error) {
	header, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(header); err != nil {
		return nil, fmt.Errorf("parsing siteinfo XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, wikitree.Errorf(wikitree.EINVALID, "empty dump header")
	}
	si := root.SelectElement("siteinfo")
	if si == nil {
		return nil, wikitree.Errorf(wikitree.ENOTFOUND, "dump has no siteinfo")
	}

	info := &wikitree.SiteInfo{
		SiteName:  childText(si, "sitename"),
		DBName:    childText(si, "dbname"),
		Base:      childText(si, "base"),
		Generator: childText(si, "generator"),
	}
	if nss := si.SelectElement("namespaces"); nss != nil {
		for _, ns := range nss.SelectElements("namespace") {
			info.Namespaces = append(info.Namespaces, wikitree.Namespace{
				Key:  ns.SelectAttrValue("key", ""),
				Name: ns.Text(),
			})
		}
	}
	return info, nil
}

// readHeader returns the dump up to the end of <siteinfo>, closed with
// </mediawiki> so it parses as a document.
func readHeader(br *bufio.Reader) ([]byte, error) {
	var buf bytes.Buffer
	for buf.Len() < maxHeader {
		line, err := br.ReadBytes('>')
		buf.Write(line)
		if bytes.HasSuffix(line, siteInfoEnd) {
			buf.WriteString("</mediawiki>")
			return buf.Bytes(), nil
		}
		if err == io.EOF || bytes.HasSuffix(line, []byte("<page>")) {
			return nil, wikitree.Errorf(wikitree.ENOTFOUND, "dump has no siteinfo")
		} else if err != nil {
			return nil, err
		}
	}
	return nil, wikitree.Errorf(wikitree.EINVALID, "siteinfo header exceeds %d bytes", maxHeader)
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
