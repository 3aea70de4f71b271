package media

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestNormalizeInputForms(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	tests := []struct {
		name    string
		payload []byte
	}{
		{"raw bytes", pngHeader},
		{"bare base64", []byte(encoded)},
		{"data url", []byte("data:image/png;base64," + encoded)},
		{"bare base64 with line breaks", []byte(encoded[:10] + "\n" + encoded[10:])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Normalize(tt.payload, "attachment1")
			require.NoError(t, err)
			assert.Equal(t, "image/png", f.MIMEType)
			assert.Equal(t, pngHeader, f.Data)
			assert.Equal(t, "attachment1.png", f.FileName)
		})
	}
}

func TestNormalizeUnknownTypeDefaultsToBin(t *testing.T) {
	f, err := Normalize([]byte("data:application/octet-stream;base64,AAECAw=="), "blob")
	require.NoError(t, err)
	assert.Equal(t, OctetStream, f.MIMEType)
	assert.Equal(t, []byte{0, 1, 2, 3}, f.Data)
	assert.Equal(t, "blob.bin", f.FileName)
}

func TestNormalizeDataURLTypeWins(t *testing.T) {
	f, err := Normalize([]byte("data:image/jpg;base64,"+base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})), "scan")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", f.MIMEType)
	assert.Equal(t, "scan.jpg", f.FileName)
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(nil, "x")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Normalize([]byte("   "), "x")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Normalize([]byte("data:image/png;base64"), "x")
	assert.Error(t, err)

	_, err = Normalize([]byte("data:image/png;base64,!!!"), "x")
	assert.Error(t, err)
}

func TestSniffTIFF(t *testing.T) {
	assert.Equal(t, "image/tiff", Sniff([]byte("II*\x00rest")))
	assert.Equal(t, "image/tiff", Sniff([]byte("MM\x00*rest")))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", Extension("image/png"))
	assert.Equal(t, ".jpg", Extension("image/jpeg; charset=binary"))
	assert.Equal(t, ".bin", Extension("application/x-unknown"))
	assert.Equal(t, ".bin", Extension(""))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "file", SafeName(""))
	assert.Equal(t, "passwd", SafeName("../../etc/passwd"))
	assert.Equal(t, "a_b", SafeName("a b"))
	assert.Equal(t, "file", SafeName("נספח"))
}
