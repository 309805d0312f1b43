package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomicx/qrx/pkg/ui/styles"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Header", "Group", "FormatID", "Success", "Error", "Warning", "Muted", "Value", "Index", "Bold"} {
		assert.True(t, styles.Has(name), name)
	}
	assert.False(t, styles.Has("Nope"))
	assert.Contains(t, styles.Render("Nope", "plain"), "plain")
}

func TestLoadStylesFromData(t *testing.T) {
	t.Cleanup(styles.Reset)

	require.NoError(t, styles.LoadStylesFromData([]byte("styles:\n  Only:\n    bold: true\n")))
	assert.True(t, styles.Has("Only"))
	assert.False(t, styles.Has("Header"))

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))

	styles.Reset()
	assert.True(t, styles.Has("Header"))
}
