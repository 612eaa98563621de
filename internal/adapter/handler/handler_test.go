package handler_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/web"
)

const testMaxUpload = 1 << 20

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)
	return r
}

func newFlash() *session.FlashStore {
	return session.NewFlashStore("test-secret", time.Minute, false)
}

func createMultipartRequest(t *testing.T, url, fieldName, fileName, contentType string, fileContent []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, fileName))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(fileContent)
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func flashCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

// followFlash replays the flash cookie from w against the index page and
// returns the rendered body.
func followFlash(t *testing.T, r http.Handler, w *httptest.ResponseRecorder) string {
	t.Helper()
	ck := flashCookie(w)
	require.NotNil(t, ck, "expected a flash cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	next := httptest.NewRecorder()
	r.ServeHTTP(next, req)
	return next.Body.String()
}
