// Package symbology is the library-backed encoder. QR codes come from
// skip2/go-qrcode, Data Matrix from makiuchi-d/gozxing and the linear
// symbologies from boombuler/barcode. The package turns each library's output
// into a module grid and draws it.
package symbology

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	dmencoder "github.com/makiuchi-d/gozxing/datamatrix/encoder"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/genomicx/qrx/pkg/encoder"
	"github.com/genomicx/qrx/pkg/formats"
	"github.com/genomicx/qrx/pkg/gs1"
	"github.com/genomicx/qrx/pkg/logging"
)

// Encoder type keys
const (
	TypeQRCode     = "qrcode"
	TypeDataMatrix = "datamatrix"
	TypeCode128    = "code128"
	TypeCode39     = "code39"
	TypeEAN13      = "ean13"
	TypeGS1128     = "gs1-128"
)

// FNC1 as understood by the boombuler Code 128 encoder
const fnc1 = 'ñ'

// DefaultBarHeightMM is used when a request leaves the bar height unset
const DefaultBarHeightMM = 10

// pointsPerMM converts millimetres to 72 dpi points, the base unit that one
// scale step multiplies
const pointsPerMM = 72 / 25.4

// symbol is an encoded symbol before it is drawn
type symbol struct {
	modules [][]bool // [row][col], true is dark
	linear  bool
	text    string // human-readable line for linear symbols
}

func (s symbol) cols() int { return len(s.modules[0]) }
func (s symbol) rows() int { return len(s.modules) }

// Library encodes symbols with the third-party libraries
type Library struct {
	logger zerolog.Logger
}

var (
	_ encoder.Encoder       = (*Library)(nil)
	_ encoder.VectorEncoder = (*Library)(nil)
)

// New returns a Library encoder
func New() *Library {
	return &Library{logger: logging.GetLogger("symbology")}
}

func (l *Library) encode(req encoder.Request) (symbol, error) {
	switch req.Symbology {
	case TypeQRCode:
		return l.qr(req)
	case TypeDataMatrix:
		return l.dataMatrix(req)
	case TypeCode128:
		bc, err := code128.Encode(req.Text)
		if err != nil {
			return symbol{}, err
		}
		return linear(bc, req.Text), nil
	case TypeCode39:
		text := strings.ToUpper(req.Text)
		bc, err := code39.Encode(text, false, false)
		if err != nil {
			return symbol{}, err
		}
		return linear(bc, text), nil
	case TypeEAN13:
		bc, err := ean.Encode(formats.StripSpace(req.Text))
		if err != nil {
			return symbol{}, err
		}
		return linear(bc, bc.Content()), nil
	case TypeGS1128:
		elems, err := gs1.Parse(req.Text)
		if err != nil {
			return symbol{}, err
		}
		bc, err := code128.Encode(gs1.Code128Input(elems, fnc1))
		if err != nil {
			return symbol{}, err
		}
		return linear(bc, gs1.HumanReadable(elems)), nil
	default:
		return symbol{}, fmt.Errorf("symbology: unsupported type %q", req.Symbology)
	}
}

func (l *Library) qr(req encoder.Request) (symbol, error) {
	q, err := qrcode.New(req.Text, recoveryLevel(req.ECLevel))
	if err != nil {
		return symbol{}, err
	}
	q.DisableBorder = true
	return symbol{modules: q.Bitmap()}, nil
}

func recoveryLevel(l encoder.ECLevel) qrcode.RecoveryLevel {
	switch l {
	case encoder.ECLow:
		return qrcode.Low
	case encoder.ECQuartile:
		return qrcode.High
	case encoder.ECHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// dataMatrix encodes ECC 200. Without a requested size the smallest square
// symbol that holds the data is used. A requested size pins both dimensions,
// so content that does not fit fails instead of picking another symbol.
// Rectangular ECC 200 symbols are always wider than tall, so 8x18 and 18x8
// both name the 18-column, 8-row symbol.
func (l *Library) dataMatrix(req encoder.Request) (symbol, error) {
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_DATA_MATRIX_SHAPE: dmencoder.SymbolShapeHint_FORCE_SQUARE,
	}
	cols, rows := max(req.Columns, req.Rows), min(req.Columns, req.Rows)
	sized := rows > 0
	if sized {
		dim, err := gozxing.NewDimension(cols, rows)
		if err != nil {
			return symbol{}, err
		}
		shape := dmencoder.SymbolShapeHint_FORCE_SQUARE
		if cols != rows {
			shape = dmencoder.SymbolShapeHint_FORCE_RECTANGLE
		}
		hints[gozxing.EncodeHintType_DATA_MATRIX_SHAPE] = shape
		hints[gozxing.EncodeHintType_MIN_SIZE] = dim
		hints[gozxing.EncodeHintType_MAX_SIZE] = dim
	}

	bm, err := datamatrix.NewDataMatrixWriter().Encode(req.Text, gozxing.BarcodeFormat_DATA_MATRIX, 0, 0, hints)
	if err != nil {
		if !strings.Contains(err.Error(), "symbol arrangement") {
			return symbol{}, err
		}
		if sized {
			return symbol{}, fmt.Errorf("datamatrix: data too long for a %dx%d symbol: %w", rows, cols, err)
		}
		return symbol{}, fmt.Errorf("datamatrix: data too long: %w", err)
	}

	s := symbol{modules: bitGrid(bm)}
	if sized && (s.cols() != cols || s.rows() != rows) {
		return symbol{}, fmt.Errorf("datamatrix: no %dx%d symbol", rows, cols)
	}
	l.logger.Debug().
		Int("columns", s.cols()).
		Int("rows", s.rows()).
		Msg("Data Matrix encoded")
	return s, nil
}

func bitGrid(bm *gozxing.BitMatrix) [][]bool {
	out := make([][]bool, bm.GetHeight())
	for y := range out {
		row := make([]bool, bm.GetWidth())
		for x := range row {
			row[x] = bm.Get(x, y)
		}
		out[y] = row
	}
	return out
}

func linear(bc barcode.Barcode, text string) symbol {
	b := bc.Bounds()
	row := make([]bool, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		row[x-b.Min.X] = dark(bc.At(x, b.Min.Y))
	}
	return symbol{modules: [][]bool{row}, linear: true, text: text}
}

func dark(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y < 128
}

func barHeightPx(req encoder.Request) int {
	mm := req.BarHeightMM
	if mm <= 0 {
		mm = DefaultBarHeightMM
	}
	h := int(mm*pointsPerMM+0.5) * scaleOf(req)
	if h < 1 {
		h = 1
	}
	return h
}

func scaleOf(req encoder.Request) int {
	if req.Scale < 1 {
		return 1
	}
	return req.Scale
}
