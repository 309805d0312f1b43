package formats

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const emptyText = "Enter text to encode"

var (
	code39Charset = regexp.MustCompile(`^[A-Z0-9\-. $/+%]+$`)
	ean13Digits   = regexp.MustCompile(`^\d{12,13}$`)
)

func barHeightOption(def string, heights ...string) OptionDescriptor {
	o := OptionDescriptor{
		ID:      OptBarHeight,
		Label:   "Bar Height (mm)",
		Kind:    KindChoice,
		Default: def,
	}
	for _, h := range heights {
		o.Choices = append(o.Choices, Choice{Value: h, Label: h + "mm"})
	}
	return o
}

func maxLength(limit int, tooLong string) Validator {
	return func(text string) string {
		if text == "" {
			return emptyText
		}
		if utf8.RuneCountInString(text) > limit {
			return tooLong
		}
		return ""
	}
}

func builtins() []FormatDescriptor {
	return []FormatDescriptor{
		{
			ID:          "datamatrix",
			Name:        "Data Matrix",
			Group:       Group2D,
			Description: "Sample tracking standard for cryovials, tubes, plates",
			EncoderKey:  "datamatrix",
			Placeholder: "SAMPLE-2025-001",
			Options: []OptionDescriptor{{
				ID:      OptDMSize,
				Label:   "Size",
				Kind:    KindChoice,
				Default: "",
				Choices: []Choice{
					{"", "Auto"},
					{"10x10", "10x10"},
					{"12x12", "12x12"},
					{"14x14", "14x14"},
					{"16x16", "16x16"},
					{"18x18", "18x18"},
					{"20x20", "20x20"},
					{"22x22", "22x22"},
					{"24x24", "24x24"},
					{"26x26", "26x26"},
					{"8x18", "8x18 (rect)"},
					{"8x32", "8x32 (rect)"},
					{"12x26", "12x26 (rect)"},
					{"12x36", "12x36 (rect)"},
					{"16x36", "16x36 (rect)"},
					{"16x48", "16x48 (rect)"},
				},
			}},
			validate: maxLength(2335, "Data Matrix supports up to 2,335 characters"),
		},
		{
			ID:          "qrcode",
			Name:        "QR Code",
			Group:       Group2D,
			Description: "General purpose, scannable by phones",
			EncoderKey:  "qrcode",
			Placeholder: "https://example.com",
			Options: []OptionDescriptor{{
				ID:      OptECLevel,
				Label:   "Error Correction",
				Kind:    KindChoice,
				Default: "M",
				Choices: []Choice{
					{"L", "Low (L), 7% recovery"},
					{"M", "Medium (M), 15% recovery"},
					{"Q", "Quartile (Q), 25% recovery"},
					{"H", "High (H), 30% recovery"},
				},
			}},
			validate: maxLength(4296, "QR Code supports up to 4,296 characters"),
		},
		{
			ID:              "code128",
			Name:            "Code 128",
			Group:           Group1D,
			Description:     "LIMS sample IDs, equipment asset tags; the most versatile 1D code",
			EncoderKey:      "code128",
			ShowTextDefault: true,
			Placeholder:     "LAB-SAMPLE-001",
			Options:         []OptionDescriptor{barHeightOption("10", "5", "8", "10", "15", "20")},
			validate:        maxLength(80, "Keep Code 128 under 80 characters for reliable scanning"),
		},
		{
			ID:              "code39",
			Name:            "Code 39",
			Group:           Group1D,
			Description:     "Legacy LIMS and healthcare sample tracking",
			EncoderKey:      "code39",
			ShowTextDefault: true,
			Placeholder:     "SAMPLE 001",
			Options:         []OptionDescriptor{barHeightOption("10", "5", "8", "10", "15", "20")},
			validate:        validateCode39,
		},
		{
			ID:              "ean13",
			Name:            "EAN-13",
			Group:           Group1D,
			Description:     "Reagent, kit, and product identification",
			EncoderKey:      "ean13",
			ShowTextDefault: true,
			Placeholder:     "590123456789",
			validate:        validateEAN13,
		},
		{
			ID:              "gs1_128",
			Name:            "GS1-128",
			Group:           Group1D,
			Description:     "Supply chain lot, expiry and GTIN for reagent tracking",
			EncoderKey:      "gs1-128",
			ShowTextDefault: true,
			Placeholder:     "(01)09501101530003(17)250101",
			Options:         []OptionDescriptor{barHeightOption("15", "8", "10", "15", "20", "25")},
			validate:        validateGS1,
		},
	}
}

func validateCode39(text string) string {
	if text == "" {
		return emptyText
	}
	if !code39Charset.MatchString(strings.ToUpper(text)) {
		return "Code 39 supports: A-Z, 0-9, - . $ / + % and space"
	}
	if utf8.RuneCountInString(text) > 40 {
		return "Keep Code 39 under 40 characters for reliable scanning"
	}
	return ""
}

func validateEAN13(text string) string {
	if text == "" {
		return "Enter 12 or 13 digits"
	}
	if !ean13Digits.MatchString(StripSpace(text)) {
		return "EAN-13 requires exactly 12 or 13 digits"
	}
	return ""
}

func validateGS1(text string) string {
	if text == "" {
		return "Enter GS1-128 data (e.g. (01)09501101530003(17)250101)"
	}
	if utf8.RuneCountInString(text) > 48 {
		return "GS1-128 should be under 48 characters"
	}
	return ""
}

// StripSpace removes every whitespace rune from s
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
