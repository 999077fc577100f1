package echoapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageUploadRequest(t *testing.T, path, token, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func Test_sliderApi(t *testing.T) {
	ts := newTestServer(t)
	adm := createAdmin(t, ts.adminRepo, "Root", "root@classify.test", "changeme")
	token, err := ts.codec.Issue(adm.ID, adm.Email, adm.Name)
	require.NoError(t, err)

	t.Run("upload requires admin", func(t *testing.T) {
		req := newImageUploadRequest(t, "/api/slider-images", "", "image", "banner.png", "image/png", []byte("png-bytes"))
		assert.Equal(t, http.StatusUnauthorized, ts.do(req).Code)
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		req := newImageUploadRequest(t, "/api/slider-images", token, "image", "notes.pdf", "application/pdf", []byte("%PDF"))
		rec := ts.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upload, list, delete", func(t *testing.T) {
		req := newImageUploadRequest(t, "/api/slider-images", token, "image", "banner.png", "image/png", []byte("png-bytes"))
		rec := ts.do(req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]interface{})
		id := data["id"].(string)
		url := data["url"].(string)
		assert.True(t, strings.HasSuffix(url, ".png"), url)

		// active images are public
		rec = ts.do(newRequest(http.MethodGet, "/api/slider-images"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeResponse(t, rec).Data, 1)

		rec = ts.do(newAuthRequest(http.MethodDelete, "/api/slider-images/"+id, token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.do(newRequest(http.MethodGet, "/api/slider-images"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeResponse(t, rec).Data)
	})
}
