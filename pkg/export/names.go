package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/genomicx/qrx/pkg/formats"
)

// MaxSafeLength caps the sanitized value inside archive entry names
const MaxSafeLength = 50

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	spaces      = regexp.MustCompile(`\s+`)
)

// Sanitize replaces everything outside [a-zA-Z0-9_-] with "_" and caps the
// result at MaxSafeLength characters
func Sanitize(value string) string {
	s := unsafeChars.ReplaceAllString(value, "_")
	if len(s) > MaxSafeLength {
		s = s[:MaxSafeLength]
	}
	return s
}

// EntryName names archive entry number pos (1-based)
func EntryName(pos int, value, ext string) string {
	return fmt.Sprintf("%04d_%s.%s", pos, Sanitize(value), ext)
}

// SVGFileName is the single SVG export name
func SVGFileName(f formats.FormatDescriptor) string {
	return fmt.Sprintf("barcode-%s.svg", f.ID)
}

// RasterFileName is the single raster export name
func RasterFileName(f formats.FormatDescriptor, size int, rf RasterFormat) string {
	return fmt.Sprintf("barcode-%s-%dx%d.%s", f.ID, size, size, rf.Ext())
}

// ArchiveFileName is the batch archive name
func ArchiveFileName(f formats.FormatDescriptor, kind ArchiveKind) string {
	return fmt.Sprintf("barcodes-%s-%s.zip", f.ID, kind)
}

// PDFFileName is the label sheet name, from the format display name
func PDFFileName(f formats.FormatDescriptor) string {
	return fmt.Sprintf("barcodes-%s.pdf", strings.ToLower(spaces.ReplaceAllString(f.Name, "-")))
}
