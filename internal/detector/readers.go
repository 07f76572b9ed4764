package detector

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentReader extracts plain text from one structured document format.
// Readers are registered at startup; a format with no registered reader
// yields empty text. Empty text means "unreadable", never "confirmed safe".
type DocumentReader interface {
	Extensions() []string
	Extract(data []byte) (string, error)
}

// Extractor dispatches best-effort text extraction by file extension.
// Total: it never returns an error, absence of a capability degrades the
// output to an empty string.
type Extractor struct {
	readers map[string]DocumentReader
}

func NewExtractor(readers ...DocumentReader) *Extractor {
	m := make(map[string]DocumentReader)
	for _, r := range readers {
		for _, ext := range r.Extensions() {
			m[ext] = r
		}
	}
	return &Extractor{readers: m}
}

// Available reports whether a reader is registered for ext.
func (e *Extractor) Available(ext string) bool {
	_, ok := e.readers[strings.ToLower(ext)]
	return ok
}

// ExtractText returns the readable text of data, dispatching on the
// extension of filename. Unknown or unreadable formats return "".
func (e *Extractor) ExtractText(data []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".csv", ".log":
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	r, ok := e.readers[ext]
	if !ok {
		return ""
	}
	text, err := r.Extract(data)
	if err != nil {
		return ""
	}
	return text
}

// PDFReader extracts the plain text of every page of a PDF.
type PDFReader struct{}

func (PDFReader) Extensions() []string { return []string{".pdf"} }

func (PDFReader) Extract(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// DocxReader pulls the paragraph text out of word/document.xml. A .docx
// is a zip of XML, so the stdlib decoders cover it.
type DocxReader struct{}

func (DocxReader) Extensions() []string { return []string{".docx"} }

func (DocxReader) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return wordXMLText(rc)
	}
	return "", nil
}

// wordXMLText walks WordprocessingML, collecting <w:t> runs and breaking
// lines at paragraph ends.
func wordXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sb.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inRun = false
			}
			if t.Name.Local == "p" {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
