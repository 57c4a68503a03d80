package media

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		img  Image
		want error
	}{
		{"jpeg", Image{MimeType: "image/jpeg", Data: []byte{1}}, nil},
		{"png with params", Image{MimeType: "Image/PNG; charset=binary", Data: []byte{1}}, nil},
		{"webp", Image{MimeType: "image/webp", Data: []byte{1}}, nil},
		{"gif rejected", Image{MimeType: "image/gif", Data: []byte{1}}, apperr.ErrUnsupportedMedia},
		{"heic rejected", Image{MimeType: "image/heic", Data: []byte{1}}, apperr.ErrUnsupportedMedia},
		{"empty", Image{MimeType: "image/png"}, apperr.ErrValidation},
		{"too large", Image{MimeType: "image/png", Data: make([]byte, MaxImageSize+1)}, apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jpg", Extension("image/jpeg"))
	assert.Equal(t, "webp", Extension("IMAGE/WEBP"))
	assert.Empty(t, Extension("image/gif"))
}
