package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeIsUniqueAndValid(t *testing.T) {
	a, b := NewCode(), NewCode()
	assert.NotEqual(t, a, b)
	assert.True(t, LooksValid(a))
	assert.Len(t, a, len("VMS-")+36)

	assert.False(t, LooksValid("VMS-nope"))
	assert.False(t, LooksValid("abc"))
}

func TestPNGRendersImage(t *testing.T) {
	b, err := PNG(NewCode(), 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())

	b, err = PNG("VMS-x", 5000)
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, MaxSize, img.Bounds().Dx())
}
