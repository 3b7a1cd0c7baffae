// Package sheetio reads and writes spreadsheet containers.
//
// It knows nothing about headers or rows-as-records; it turns bytes into a
// grid of typed cells and a grid of typed cells back into bytes. Header
// inference and selection live in package core.
//
// Two containers are understood:
//
//   - OOXML workbooks (.xlsx, .xlsm), decoded and encoded with excelize
//   - legacy BIFF workbooks (.xls) inside an OLE2 compound file, decoded only
//
// The container is chosen by sniffing magic bytes, not by file extension, so
// a workbook saved with the wrong extension still decodes.
package sheetio

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies the binary container of a spreadsheet.
type Format int

const (
	FormatUnknown Format = iota
	FormatOLE2           // Binary .xls (magic: d0cf11e0a1b11ae1)
	FormatOOXML          // ZIP-based .xlsx (magic: 504b0304)
)

// String returns a short container name for logs.
func (f Format) String() string {
	switch f {
	case FormatOLE2:
		return "ole2"
	case FormatOOXML:
		return "ooxml"
	default:
		return "unknown"
	}
}

var (
	ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0}
	zipMagic  = []byte{0x50, 0x4b, 0x03, 0x04}
)

// Detect returns the container format of buf based on its leading bytes.
func Detect(buf []byte) Format {
	if len(buf) < 4 {
		return FormatUnknown
	}
	switch {
	case bytes.HasPrefix(buf, ole2Magic):
		return FormatOLE2
	case bytes.HasPrefix(buf, zipMagic):
		return FormatOOXML
	default:
		return FormatUnknown
	}
}

// DefaultExtensions lists the file extensions accepted for ingestion when
// the caller does not configure its own list.
var DefaultExtensions = []string{".xlsx", ".xls"}

// HasExtension reports whether name ends with one of exts, ignoring case.
// Entries in exts may be given with or without the leading dot.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ext {
			return true
		}
	}
	return false
}
