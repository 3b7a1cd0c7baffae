package core

import (
	"time"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/JonMunkholm/xlselect/internal/sheetio"
)

// Export defaults.
const (
	DefaultExportFileName  = "selected_products.xlsx"
	DefaultExportSheetName = "Selected Products"
)

// AbsentLabel is the projection label for a row with no value in the
// display field.
const AbsentLabel = "N/A"

// Row maps column names to values. A column with no value has no key.
type Row map[string]cell.Value

// Get returns the value at field, or Absent if the row has none.
func (r Row) Get(field string) cell.Value {
	if v, ok := r[field]; ok {
		return v
	}
	return cell.Absent()
}

// Document is one ingested spreadsheet. It is immutable once built.
type Document struct {
	FileName  string    `json:"file_name"`
	SheetName string    `json:"sheet_name"`
	Headers   []string  `json:"headers"`
	Rows      []Row     `json:"-"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Len returns the number of data rows.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasHeader reports whether name is in the header list.
func (d *Document) HasHeader(name string) bool {
	if d == nil {
		return false
	}
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Choice is one projected row.
type Choice struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Artifact is a serialized export ready to hand to the user.
type Artifact struct {
	FileName    string
	SheetName   string
	ContentType string
	Data        []byte
	Rows        int
}

// Options configures ingestion and export. Zero fields take defaults.
type Options struct {
	// AllowedExtensions are matched case-insensitively; the leading dot is optional.
	AllowedExtensions []string
	ExportFileName    string
	ExportSheetName   string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		AllowedExtensions: append([]string(nil), sheetio.DefaultExtensions...),
		ExportFileName:    DefaultExportFileName,
		ExportSheetName:   DefaultExportSheetName,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.AllowedExtensions) == 0 {
		o.AllowedExtensions = d.AllowedExtensions
	}
	if o.ExportFileName == "" {
		o.ExportFileName = d.ExportFileName
	}
	if o.ExportSheetName == "" {
		o.ExportSheetName = d.ExportSheetName
	}
	return o
}
