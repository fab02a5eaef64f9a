package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrInvalidMimetype   = errors.New("invalid mimetype: must be 'application/epub+zip'")
	ErrContainerNotFound = errors.New("META-INF/container.xml not found")
	ErrOPFPathNotFound   = errors.New("OPF path not found in container.xml")
)

// EPUBDocument paginates an EPUB by its linear spine: every XHTML spine
// item is one logical page. This matches how paginating surfaces step
// through reflowable books one section at a time.
type EPUBDocument struct {
	path      string
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	title     string
	coverHref string
	pages     []Page
}

// container.xml structure
type epubContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// Subset of the OPF package document: metadata title, manifest and spine.
type epubPackage struct {
	UniqueID string `xml:"unique-identifier,attr"`
	Metadata struct {
		Title []string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Meta  []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// OpenEPUB opens an EPUB file and builds its page sequence from the spine.
func OpenEPUB(epubPath string) (*EPUBDocument, error) {
	if err := checkReadable(epubPath); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", epubPath, ErrInvalidDocument, err)
	}

	doc := &EPUBDocument{
		path:      epubPath,
		zipReader: zr,
		files:     make(map[string]*zip.File),
	}
	for _, f := range zr.File {
		doc.files[normalizeZipPath(f.Name)] = f
	}

	if err := doc.validateMimetype(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("%s: %w: %v", epubPath, ErrInvalidDocument, err)
	}

	opfPath, err := doc.resolveOPFPath()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("%s: %w: %v", epubPath, ErrInvalidDocument, err)
	}

	if err := doc.loadPackage(opfPath); err != nil {
		zr.Close()
		return nil, fmt.Errorf("%s: %w: %v", epubPath, ErrInvalidDocument, err)
	}

	if len(doc.pages) == 0 {
		zr.Close()
		return nil, fmt.Errorf("%s: %w: no readable spine items", epubPath, ErrInvalidDocument)
	}

	return doc, nil
}

func (d *EPUBDocument) Key() string    { return documentKey(d.path) }
func (d *EPUBDocument) PageCount() int { return len(d.pages) }

// Name prefers the OPF title over the filename.
func (d *EPUBDocument) Name() string {
	if d.title != "" {
		return d.title
	}
	return displayName(d.path)
}

// CoverHref returns the archive path of the cover image, if one is declared.
func (d *EPUBDocument) CoverHref() (string, bool) {
	return d.coverHref, d.coverHref != ""
}

func (d *EPUBDocument) Page(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return Page{}, fmt.Errorf("page index %d out of range [0,%d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

func (d *EPUBDocument) Close() error { return d.zipReader.Close() }

// readFile reads the contents of a file from the EPUB archive.
func (d *EPUBDocument) readFile(p string) ([]byte, error) {
	f, ok := d.files[normalizeZipPath(p)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", p, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// validateMimetype checks that the mimetype file exists and declares EPUB.
// Compression of the mimetype entry is tolerated; strict packaging rules
// are a publisher's concern, not a viewer's.
func (d *EPUBDocument) validateMimetype() error {
	content, err := d.readFile("mimetype")
	if err != nil {
		return ErrInvalidMimetype
	}
	if strings.TrimSpace(string(content)) != "application/epub+zip" {
		return ErrInvalidMimetype
	}
	return nil
}

// resolveOPFPath parses container.xml to locate the package document.
func (d *EPUBDocument) resolveOPFPath() (string, error) {
	content, err := d.readFile("META-INF/container.xml")
	if err != nil {
		return "", ErrContainerNotFound
	}

	var c epubContainer
	if err := xml.Unmarshal(content, &c); err != nil {
		return "", fmt.Errorf("failed to parse container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			return normalizeZipPath(rf.FullPath), nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		return normalizeZipPath(c.Rootfiles.Rootfile[0].FullPath), nil
	}
	return "", ErrOPFPathNotFound
}

// loadPackage parses the OPF and materializes the page sequence from the
// linear spine. Spine items that are missing or not XHTML are skipped,
// matching viewer behavior for mildly broken books.
func (d *EPUBDocument) loadPackage(opfPath string) error {
	opfData, err := d.readFile(opfPath)
	if err != nil {
		return fmt.Errorf("failed to read OPF: %w", err)
	}

	var pkg epubPackage
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	if len(pkg.Metadata.Title) > 0 {
		d.title = strings.TrimSpace(pkg.Metadata.Title[0])
	}

	opfDir := path.Dir(opfPath)

	type manifestItem struct {
		href       string
		mediaType  string
		properties string
	}
	manifest := make(map[string]manifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		manifest[item.ID] = manifestItem{
			href:       joinZipPath(opfDir, item.Href),
			mediaType:  item.MediaType,
			properties: item.Properties,
		}
	}

	// Cover: EPUB 3 cover-image property first, then EPUB 2 meta name="cover".
	for _, item := range pkg.Manifest.Items {
		if strings.Contains(item.Properties, "cover-image") {
			d.coverHref = joinZipPath(opfDir, item.Href)
			break
		}
	}
	if d.coverHref == "" {
		for _, m := range pkg.Metadata.Meta {
			if m.Name != "cover" || m.Content == "" {
				continue
			}
			if item, ok := manifest[m.Content]; ok {
				d.coverHref = item.href
			}
			break
		}
	}

	number := 0
	for _, ref := range pkg.Spine.ItemRefs {
		if ref.Linear == "no" {
			continue
		}
		item, ok := manifest[ref.IDRef]
		if !ok || !isXHTMLMediaType(item.mediaType) {
			continue
		}
		if _, present := d.files[normalizeZipPath(item.href)]; !present {
			continue
		}

		number++
		href := item.href
		d.pages = append(d.pages, Page{
			Number: number,
			Label:  d.pageLabel(href, number),
			open: func() (io.ReadCloser, error) {
				data, err := d.readFile(href)
				if err != nil {
					return nil, err
				}
				return io.NopCloser(bytes.NewReader(data)), nil
			},
		})
	}
	return nil
}

// pageLabel extracts a display label for a spine item: the document
// title, the first heading, or the page number when neither parses.
func (d *EPUBDocument) pageLabel(href string, number int) string {
	data, err := d.readFile(href)
	if err != nil {
		return fmt.Sprintf("%d", number)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Sprintf("%d", number)
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h := strings.TrimSpace(doc.Find("h1, h2, h3").First().Text()); h != "" {
		return h
	}
	return fmt.Sprintf("%d", number)
}

func isXHTMLMediaType(mediaType string) bool {
	return strings.Contains(mediaType, "html")
}

// normalizeZipPath normalizes archive paths (removes ./ prefix).
func normalizeZipPath(p string) string {
	return strings.TrimPrefix(p, "./")
}

// joinZipPath joins the OPF directory with a manifest-relative href.
func joinZipPath(base, rel string) string {
	if base == "" || base == "." {
		return normalizeZipPath(rel)
	}
	return path.Clean(path.Join(base, rel))
}
