package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFolder(t *testing.T) {
	for _, f := range []string{"events", "team", "payment", "registrations", "gallery", "hero", "content"} {
		assert.True(t, ValidFolder(f), f)
	}
	assert.False(t, ValidFolder(""))
	assert.False(t, ValidFolder("../etc"))
	assert.False(t, ValidFolder("Events"))
}

func TestValidateMediaFile(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{"jpeg by type", "image/jpeg", "x.bin", true},
		{"type with params", "video/mp4; codecs=avc1", "clip", true},
		{"webm by extension", "", "clip.WEBM", true},
		{"pdf", "application/pdf", "doc.pdf", false},
		{"unknown type known ext", "application/octet-stream", "a.png", true},
		{"nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateMediaFile(tt.contentType, tt.filename))
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionFor("image/jpeg", "photo.JPEG"))
	assert.Equal(t, ".png", ExtensionFor("", "a.png"))
	assert.Equal(t, ".webp", ExtensionFor("image/webp", "blob"))
	assert.Equal(t, "", ExtensionFor("", "blob"))
}

func TestMediaKey(t *testing.T) {
	key := MediaKey(FolderPayment, ".jpg")
	assert.Regexp(t, regexp.MustCompile(`^payment/[0-9a-f-]{36}\.jpg$`), key)
	assert.NotEqual(t, key, MediaKey(FolderPayment, ".jpg"))
}

func TestS3_ObjectURL(t *testing.T) {
	s := &S3{baseURL: "https://media.vistara.example"}
	assert.Equal(t, "https://media.vistara.example/gallery/a.jpg", s.ObjectURL("gallery/a.jpg"))
	assert.Equal(t, "https://media.vistara.example/team/b.png", s.ObjectURL("/team/b.png"))
}
