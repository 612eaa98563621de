package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/config"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/imageproc"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/metrics"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/server"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/storage"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
	"github.com/marcos-nsantos/photo-effects/internal/web"
)

const (
	testSecret    = "test-secret-key-for-e2e-tests"
	testMaxUpload = 4 << 20
	apiBasePath   = "/api/v1"
)

type TestApp struct {
	Server     *httptest.Server
	Storage    *storage.LocalStorage
	Dir        string
	BaseURL    string
	httpClient *http.Client
}

type appOptions struct {
	requestsPerMin int
}

func setupTestApp(t *testing.T) *TestApp {
	return setupTestAppWith(t, appOptions{})
}

func setupTestAppWith(t *testing.T, opts appOptions) *TestApp {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	localStorage, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	prom, err := metrics.NewProm("photo_effects", registry)
	require.NoError(t, err)

	flash := session.NewFlashStore(testSecret, time.Minute, false)

	var rateLimiter *middleware.RateLimiter
	if opts.requestsPerMin > 0 {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		rateLimiter = middleware.NewRateLimiter(client, config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: opts.requestsPerMin,
		}, flash, zap.NewNop())
	}

	processor := imageproc.NewProcessor(config.ImageConfig{
		JPEGQuality:     imageproc.JPEGQuality,
		CompressQuality: imageproc.CompressQuality,
		PosterizeColors: imageproc.PosterizeColors,
		BlurSigma:       imageproc.BlurSigma,
	})
	imageSvc := editor.NewService(localStorage, processor, prom)

	templates, err := web.Templates()
	require.NoError(t, err)

	router := server.NewRouter(server.RouterConfig{
		ImageHandler:   handler.NewImageHandler(imageSvc, flash, testMaxUpload),
		APIHandler:     handler.NewAPIHandler(imageSvc, testMaxUpload),
		HealthHandler:  handler.NewHealthHandler(),
		Flash:          flash,
		Templates:      templates,
		RateLimiter:    rateLimiter,
		HTTPMetrics:    prom,
		MetricsHandler: metrics.Handler(registry),
		Logger:         zap.NewNop(),
		Environment:    "test",
	})

	ts := httptest.NewServer(router.Engine())

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	app := &TestApp{
		Server:  ts,
		Storage: localStorage,
		Dir:     dir,
		BaseURL: ts.URL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	t.Cleanup(func() {
		ts.Close()
		_ = localStorage.Close()
	})
	return app
}

func (app *TestApp) do(req *http.Request) (*http.Response, error) {
	return app.httpClient.Do(req)
}

func (app *TestApp) get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, app.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return app.do(req)
}

func (app *TestApp) postForm(path string, form map[string]string) (*http.Response, error) {
	body := &bytes.Buffer{}
	for k, v := range form {
		if body.Len() > 0 {
			body.WriteByte('&')
		}
		fmt.Fprintf(body, "%s=%s", k, v)
	}
	req, err := http.NewRequest(http.MethodPost, app.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(req)
}

func (app *TestApp) postJSON(path string, payload any) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, app.BaseURL+apiBasePath+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return app.do(req)
}

func (app *TestApp) upload(path, filename string, data []byte) (*http.Response, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, app.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return app.do(req)
}

// uploadAPI uploads through the JSON API and returns the new identifier.
func (app *TestApp) uploadAPI(t *testing.T, filename string, data []byte) string {
	t.Helper()
	resp, err := app.upload(apiBasePath+"/images", filename, data)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID string `json:"id"`
	}
	parseResponse(t, resp, &body)
	require.NotEmpty(t, body.ID)
	return body.ID
}

func (app *TestApp) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(app.Dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		require.NoError(t, json.Unmarshal(body, dest), "response body: %s", string(body))
	}
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

// catPNG is a 100x100 opaque image with a 10px white border around a
// non-white interior.
func catPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 10 && x < 90 && y >= 10 && y < 90 {
				c = color.NRGBA{R: uint8(100 + x), G: uint8(50 + y), B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeNRGBA(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
