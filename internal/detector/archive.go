package detector

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode"
)

// MaxArchiveDepth bounds nested-container recursion. Entries below the
// bound are silently ignored (depth-bomb protection).
const MaxArchiveDepth = 3

// HardBlockExts are rejected wherever they appear: standalone uploads and
// archive entries at any depth.
var HardBlockExts = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true, ".scr": true,
	".js": true, ".vbs": true, ".ps1": true, ".msi": true, ".apk": true,
	".dll": true, ".jar": true, ".sh": true, ".py": true,
}

// containerExts is the fixed set of recognized container formats. Whether
// a format can actually be opened depends on the registered openers.
var containerExts = map[string]bool{".zip": true, ".rar": true}

// IsContainer reports whether ext names a recognized container format.
func IsContainer(ext string) bool {
	return containerExts[strings.ToLower(ext)]
}

// ArchiveEntry is one non-directory member of an opened container.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// ArchiveOpener lists the entries of one container format.
type ArchiveOpener interface {
	Extensions() []string
	Entries(data []byte) ([]ArchiveEntry, error)
}

// BlockedEntryError aborts an entire walk: one hard-blocked entry, at any
// depth, condemns the whole archive.
type BlockedEntryError struct {
	Name string
}

func (e *BlockedEntryError) Error() string {
	return fmt.Sprintf("blocked file inside archive: %s", e.Name)
}

// ErrUnsupportedArchive marks a container format with no registered opener.
var ErrUnsupportedArchive = errors.New("archive format not supported on this system")

// ArchiveWalker recursively extracts text fragments from containers.
type ArchiveWalker struct {
	openers   map[string]ArchiveOpener
	extractor *Extractor
}

func NewArchiveWalker(extractor *Extractor, openers ...ArchiveOpener) *ArchiveWalker {
	m := make(map[string]ArchiveOpener)
	for _, o := range openers {
		for _, ext := range o.Extensions() {
			m[ext] = o
		}
	}
	return &ArchiveWalker{openers: m, extractor: extractor}
}

// Walk opens data as a container and returns the labeled text fragments
// of every readable entry, recursing into nested containers up to
// MaxArchiveDepth. The hard-block check runs before any extraction or
// recursion, at every depth; a match returns *BlockedEntryError
// immediately. A recognized container with no registered opener returns
// ErrUnsupportedArchive. A corrupt container degrades to no fragments.
func (w *ArchiveWalker) Walk(data []byte, filename string, depth int) ([]string, error) {
	if depth > MaxArchiveDepth {
		return nil, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	opener, ok := w.openers[ext]
	if !ok {
		return nil, ErrUnsupportedArchive
	}

	entries, err := opener.Entries(data)
	if err != nil {
		// Undecodable container: treat like any unreadable content.
		return nil, nil
	}

	var fragments []string
	for _, entry := range entries {
		entryExt := strings.ToLower(filepath.Ext(entry.Name))

		if HardBlockExts[entryExt] {
			return nil, &BlockedEntryError{Name: entry.Name}
		}

		if containerExts[entryExt] {
			nested, err := w.Walk(entry.Data, entry.Name, depth+1)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, nested...)
			continue
		}

		text := w.extractor.ExtractText(entry.Data, entry.Name)
		if strings.TrimSpace(text) != "" {
			fragments = append(fragments, "[ARCHIVE:"+entry.Name+"]\n"+text)
		}
	}
	return fragments, nil
}

// ZipOpener reads zip containers with the stdlib decoder.
type ZipOpener struct{}

func (ZipOpener) Extensions() []string { return []string{".zip"} }

func (ZipOpener) Entries(data []byte) ([]ArchiveEntry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var entries []ArchiveEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{Name: f.Name, Data: content})
	}
	return entries, nil
}

// RarOpener reads rar containers. Registering it is what makes .rar a
// supported format; without it the walker reports ErrUnsupportedArchive.
type RarOpener struct{}

func (RarOpener) Extensions() []string { return []string{".rar"} }

func (RarOpener) Entries(data []byte) ([]ArchiveEntry, error) {
	rr, err := rardecode.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, err
	}
	var entries []ArchiveEntry
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, nil
		}
		if hdr.IsDir {
			continue
		}
		content, err := io.ReadAll(rr)
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{Name: hdr.Name, Data: content})
	}
	return entries, nil
}
