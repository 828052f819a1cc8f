package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganado/internal/config"
)

func TestSign(t *testing.T) {
	sum := sha1.Sum([]byte("folder=ganado-ap&timestamp=1700000000secret"))
	want := hex.EncodeToString(sum[:])

	got := Sign(map[string]string{"timestamp": "1700000000", "folder": "ganado-ap", "empty": ""}, "secret")

	assert.Equal(t, want, got)
}

func newTestClient(url string) *APIClient {
	c := NewClient(config.MediaConfig{
		BaseURL:   url,
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "ganado-ap",
	})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/auto/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ganado-ap", r.FormValue("folder"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, Sign(map[string]string{"folder": "ganado-ap", "timestamp": "1700000000"}, "secret"), r.FormValue("signature"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "vaca.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/vaca.jpg","resource_type":"image","public_id":"ganado-ap/vaca"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Upload(context.Background(), File{
		Name:        "vaca.jpg",
		ContentType: "image/jpeg",
		Reader:      strings.NewReader("jpeg-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/vaca.jpg", res.URL)
	assert.Equal(t, "image", res.ResourceType)
}

func TestUpload_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), File{Name: "a.png", ContentType: "image/png", Reader: strings.NewReader("x")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}
