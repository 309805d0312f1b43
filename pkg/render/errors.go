package render

import (
	stderrors "errors"
	"strings"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/gs1"
)

var (
	lengthPatterns  = []string{"too long", "to much data", "too much data", "length"}
	charsetPatterns = []string{"could not be encoded", "can not encode", "invalid data", "invalid character", "not supported"}
)

// ClassifyError translates an encoder failure into a coded error with a
// message fit for the user. It never returns a raw library error.
func ClassifyError(err error) *errors.QrxError {
	if err == nil {
		return nil
	}
	var qe *errors.QrxError
	if stderrors.As(err, &qe) {
		return qe
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case stderrors.Is(err, gs1.ErrCheckDigit):
		return errors.Wrap(err, errors.ErrEncodeCheckDigit, "Invalid check digit in GS1 data")
	case stderrors.Is(err, gs1.ErrSyntax):
		return errors.Wrap(err, errors.ErrEncodeAISyntax,
			"Invalid GS1 data (use AI format, e.g. (01)09501101530003(17)250101)")
	case containsAny(lower, lengthPatterns):
		return errors.Wrap(err, errors.ErrEncodeLength, "Data too long for this format")
	case strings.Contains(lower, "checksum") || strings.Contains(lower, "check digit"):
		return errors.Wrap(err, errors.ErrEncodeCheckDigit, "Invalid check digit")
	case containsAny(lower, charsetPatterns):
		return errors.Wrap(err, errors.ErrEncodeCharset, "Invalid characters for this format")
	default:
		return errors.Wrap(err, errors.ErrEncodeFailed, stripPrefix(msg))
	}
}

// stripPrefix drops a leading "lib: " so only the library's own words remain
func stripPrefix(msg string) string {
	if i := strings.Index(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
