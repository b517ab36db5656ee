package uploadclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAll_StopsAtFirstFailure(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		seen = append(seen, hdr.Filename)
		assert.Equal(t, "product", r.FormValue("type"))

		w.Header().Set("Content-Type", "application/json")
		if string(data) == "bad" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"upload failed: AccessDenied"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(Result{URL: "https://cdn.example/" + hdr.Filename, Key: hdr.Filename})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	files := []File{
		{Name: "a.png", Data: []byte("ok")},
		{Name: "b.png", Data: []byte("bad")},
		{Name: "c.png", Data: []byte("ok")},
	}
	results, err := c.UploadAll(context.Background(), files, Options{Type: "product"})

	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "upload failed: AccessDenied", se.Message)

	require.Len(t, results, 1)
	assert.Equal(t, "a.png", results[0].Key)
	assert.Equal(t, []string{"a.png", "b.png"}, seen)
}

func TestUploadAll_AllSucceed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(Result{URL: "u/" + hdr.Filename, Key: hdr.Filename})
	}))
	defer srv.Close()

	results, err := NewClient(srv.URL).UploadAll(context.Background(), []File{{Name: "x.jpg", Data: []byte("x")}, {Name: "y.jpg", Data: []byte("y")}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Result{{URL: "u/x.jpg", Key: "x.jpg"}, {URL: "u/y.jpg", Key: "y.jpg"}}, results)
}
