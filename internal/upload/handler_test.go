package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-fest/backend/internal/models"
)

type fakeObjects struct {
	keys        []string
	contentType string
	body        string
	err         error
}

func (f *fakeObjects) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(body)
	f.keys = append(f.keys, key)
	f.contentType = contentType
	f.body = string(b)
	return "https://cdn.example/" + key, nil
}

func multipartBody(t *testing.T, folder, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, h *Handler, folder, filename, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", h.Upload)
	body, ct := multipartBody(t, folder, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_image(t *testing.T) {
	store := &fakeObjects{}
	w := doUpload(t, NewHandler(store, 1<<20, nil), "payment", "proof.JPEG", "image/jpeg", "jpegdata")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "payment/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".jpg"))
	assert.Equal(t, "image/jpeg", store.contentType)
	assert.Equal(t, "jpegdata", store.body)

	var resp struct {
		Success bool              `json:"success"`
		Data    models.MediaAsset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://cdn.example/"+store.keys[0], resp.Data.URL)
	assert.Equal(t, models.MediaImage, resp.Data.Type)
	assert.Equal(t, store.keys[0], resp.Data.PublicID)
}

func TestUpload_videoClassified(t *testing.T) {
	store := &fakeObjects{}
	w := doUpload(t, NewHandler(store, 1<<20, nil), "hero", "intro.mp4", "video/mp4", "mp4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"video"`)
}

func TestUpload_rejects(t *testing.T) {
	tests := []struct {
		name        string
		folder      string
		filename    string
		contentType string
		content     string
		status      int
	}{
		{"bad folder", "secrets", "a.png", "image/png", "x", http.StatusBadRequest},
		{"no folder", "", "a.png", "image/png", "x", http.StatusBadRequest},
		{"no file", "events", "", "", "", http.StatusBadRequest},
		{"pdf", "events", "a.pdf", "application/pdf", "x", http.StatusBadRequest},
		{"too large", "events", "a.png", "image/png", strings.Repeat("x", 64), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeObjects{}
			w := doUpload(t, NewHandler(store, 32, nil), tt.folder, tt.filename, tt.contentType, tt.content)
			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, store.keys)
		})
	}
}

func TestUpload_storeFailureAndUnconfigured(t *testing.T) {
	w := doUpload(t, NewHandler(&fakeObjects{err: errors.New("s3 down")}, 1<<20, nil), "team", "a.png", "image/png", "x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doUpload(t, NewHandler(nil, 1<<20, nil), "team", "a.png", "image/png", "x")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
