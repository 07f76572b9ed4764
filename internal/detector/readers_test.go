package detector

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextPlainText(t *testing.T) {
	e := NewExtractor()

	assert.Equal(t, "hello world", e.ExtractText([]byte("hello world"), "notes.txt"))
	assert.Equal(t, "a,b,c", e.ExtractText([]byte("a,b,c"), "data.CSV"))

	// Undecodable bytes are replaced, never an error.
	got := e.ExtractText([]byte{'h', 'i', 0xff, 0xfe, '!'}, "junk.log")
	assert.Contains(t, got, "hi")
	assert.Contains(t, got, "!")
}

func TestExtractTextUnknownExtension(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.ExtractText([]byte("binary-ish"), "photo.bin"))
	assert.Equal(t, "", e.ExtractText([]byte("no extension"), "README"))
}

func TestExtractTextMissingReaderDegrades(t *testing.T) {
	// No PDF reader registered: a .pdf yields empty text, not an error.
	e := NewExtractor()
	assert.False(t, e.Available(".pdf"))
	assert.Equal(t, "", e.ExtractText([]byte("%PDF-1.4 ..."), "invoice.pdf"))
}

func TestDocxReader(t *testing.T) {
	e := NewExtractor(DocxReader{})
	assert.True(t, e.Available(".docx"))

	data := buildDocx(t, []string{"first paragraph", "contact me on telegram"})
	text := e.ExtractText(data, "letter.docx")

	assert.Contains(t, text, "first paragraph")
	assert.Contains(t, text, "contact me on telegram")
}

func TestDocxReaderCorruptInput(t *testing.T) {
	e := NewExtractor(DocxReader{})
	assert.Equal(t, "", e.ExtractText([]byte("not a zip"), "letter.docx"))
}

func TestPDFReaderCorruptInput(t *testing.T) {
	e := NewExtractor(PDFReader{})
	assert.True(t, e.Available(".pdf"))
	assert.Equal(t, "", e.ExtractText([]byte("not a pdf"), "doc.pdf"))
}
