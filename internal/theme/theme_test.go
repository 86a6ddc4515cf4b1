package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	for _, name := range []string{"", "default", "Dark", "light"} {
		assert.NoError(t, Apply(name), name)
	}
	assert.Error(t, Apply("solarized"))
}

func TestStatusStyleWrapsPalette(t *testing.T) {
	n := len(columnColors)
	assert.Equal(t,
		StatusStyle(0).GetForeground(),
		StatusStyle(n).GetForeground())
	assert.Equal(t, ColorGray, StatusStyle(-1).GetForeground())
}
