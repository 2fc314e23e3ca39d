package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/media"
)

func TestKindForFilename(t *testing.T) {
	cases := []struct {
		name string
		kind schemas.MediaKind
		ok   bool
	}{
		{"clip.mp4", schemas.MediaVideo, true},
		{"CLIP.MOV", schemas.MediaVideo, true},
		{"archive/clip.mkv", schemas.MediaVideo, true},
		{"photo.jpg", schemas.MediaImage, true},
		{"photo.JPEG", schemas.MediaImage, true},
		{"sticker.webp", schemas.MediaImage, true},
		{"notes.txt", "", false},
		{"noextension", "", false},
	}

	for _, tc := range cases {
		kind, ok := media.KindForFilename(tc.name)
		assert.Equalf(t, tc.ok, ok, "supported(%s)", tc.name)
		assert.Equalf(t, tc.kind, kind, "kind(%s)", tc.name)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, media.IsSupported("a.png"))
	assert.False(t, media.IsSupported("a.exe"))
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "video/mp4", media.MIMEType("clip.mp4"))
	assert.Equal(t, "image/jpeg", media.MIMEType("photo.JPG"))
	assert.Equal(t, "application/octet-stream", media.MIMEType("data.bin"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", media.FormatSize(0))
	assert.Equal(t, "512.0 B", media.FormatSize(512))
	assert.Equal(t, "1.0 KB", media.FormatSize(1024))
	assert.Equal(t, "1.5 MB", media.FormatSize(1572864))
	assert.Equal(t, "2.0 GB", media.FormatSize(2147483648))
}
