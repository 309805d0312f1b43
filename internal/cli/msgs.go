package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort        = "Barcode and QR code generator for sample labels"
	MsgGenerateShort    = "Encode one value and write it to a file"
	MsgBatchShort       = "Render every line of a file and report the outcome"
	MsgExportShort      = "Package every valid line as a ZIP or PDF label sheet"
	MsgValidateShort    = "Check values against a format without rendering"
	MsgValidateLong     = "Validate checks every non-empty line of FILE (or stdin) against the selected format. It exits non-zero when any value is invalid."
	MsgFormatsShort     = "List barcode formats or describe one"
	MsgPresetsShort     = "List PDF label presets and page sizes"
	MsgInteractiveShort = "Generate a barcode by answering prompts"
	MsgConfigShort      = "Show or create the configuration file"
	MsgConfigShowShort  = "Print the effective configuration as TOML"
	MsgConfigInitShort  = "Write the default configuration file"
	MsgServeShort       = "Serve the generator over HTTP"
	MsgCompletionShort  = "Generate shell completion script"
	MsgVersionShort     = "Print version information"
	MsgManShort         = "Generate man page"

	// Status messages
	MsgVersionFormat   = "qrx version %s\n  commit: %s\n  built:  %s\n"
	MsgConfigWritten   = "Wrote default configuration to %s"
	MsgConfigSource    = "# loaded from %s\n"
	MsgWatching        = "Watching %s (Ctrl+C to stop)"
	MsgInteractiveDone = "Cancelled."

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrWatchNeedsIn = "--watch needs a FILE argument"
	MsgErrInvalidCount = "%d of %d values are invalid"
	MsgErrNoInput      = "no input values"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Config file (default $XDG_CONFIG_HOME/qrx/config.toml)"
	MsgFlagOutputFormat = "Result output: auto, term, text or json"
	MsgFlagFormat       = "Barcode format id (see 'qrx formats')"
	MsgFlagOpt          = "Format option as id=value, repeatable"
	MsgFlagCaption      = "Caption under the symbol: auto, on or off"
	MsgFlagAsSingle     = "Output: svg, png, jpg, pdf or preview (default svg, or export.raster_format with --size)"
	MsgFlagAsBatch      = "Output: zip-svg, zip-png or pdf"
	MsgFlagSize         = "Raster size in pixels: 256, 512, 1024 or 2048"
	MsgFlagOutput       = "Output file, '-' for stdout"
	MsgFlagWatch        = "Regenerate the report when FILE changes"
	MsgFlagPreviewDir   = "Write a PNG preview of every rendered value here"
	MsgFlagPageSize     = "PDF page size: a4 or letter"
	MsgFlagOrientation  = "PDF orientation: portrait or landscape"
	MsgFlagPreset       = "PDF label preset (see 'qrx presets')"
	MsgFlagLabelWidth   = "Custom label width in mm"
	MsgFlagLabelHeight  = "Custom label height in mm"
	MsgFlagGap          = "Gap between labels in mm (negative for none)"
	MsgFlagMargin       = "Page margin in mm (negative for none)"
	MsgFlagForce        = "Overwrite an existing file"
	MsgFlagAddr         = "Listen address"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/generate-long.txt
	msgGenerateLongRaw string
	MsgGenerateLong    = strings.TrimSpace(msgGenerateLongRaw)

	//go:embed msgs/generate-example.txt
	msgGenerateExampleRaw string
	MsgGenerateExample    = strings.TrimRight(msgGenerateExampleRaw, "\n")

	//go:embed msgs/batch-long.txt
	msgBatchLongRaw string
	MsgBatchLong    = strings.TrimSpace(msgBatchLongRaw)

	//go:embed msgs/batch-example.txt
	msgBatchExampleRaw string
	MsgBatchExample    = strings.TrimRight(msgBatchExampleRaw, "\n")

	//go:embed msgs/export-long.txt
	msgExportLongRaw string
	MsgExportLong    = strings.TrimSpace(msgExportLongRaw)

	//go:embed msgs/export-example.txt
	msgExportExampleRaw string
	MsgExportExample    = strings.TrimRight(msgExportExampleRaw, "\n")

	//go:embed msgs/serve-long.txt
	msgServeLongRaw string
	MsgServeLong    = strings.TrimSpace(msgServeLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
