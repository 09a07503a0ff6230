package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/danmuck/ndefkit/internal/config"
	"github.com/danmuck/ndefkit/internal/store"
	"github.com/danmuck/ndefkit/internal/testutil/testlog"
)

// D1 01 06 'T' | 02 "fr" "Tht"
var textImage = []byte{0xD1, 0x01, 0x06, 0x54, 0x02, 0x66, 0x72, 0x54, 0x68, 0x74}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg config.Config, withStore bool) *Server {
	t.Helper()
	testlog.Start(t)
	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(filepath.Join(t.TempDir(), "messages"), cfg.Limits.NDEF())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { _ = st.Close() })
	}
	return New(cfg, st)
}

func do(t *testing.T, s *Server, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.Default(), false)
	rr := do(t, s, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	decodeBody(t, rr, &body)
	if body["status"] != "ok" || body["service"] != "ndefd" || body["store"] != false {
		t.Fatalf("unexpected health body %#v", body)
	}
}

func TestEncodeThenDecode(t *testing.T) {
	s := newTestServer(t, config.Default(), false)

	rr := do(t, s, http.MethodPost, "/v1/encode", "application/json",
		[]byte(`{"records":[{"recordType":"text","language":"fr","content":"Tht"}]}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("encode: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var enc encodeResponse
	decodeBody(t, rr, &enc)
	if enc.Hex != "d1010654026672546874" || enc.Size != 10 || enc.Records != 1 {
		t.Fatalf("unexpected encode response %+v", enc)
	}

	rr = do(t, s, http.MethodPost, "/v1/decode", "application/json",
		[]byte(`{"hex":"d1 01 06 54 02 66 72 54 68 74"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("decode: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var dec messageResponse
	decodeBody(t, rr, &dec)
	if len(dec.Records) != 1 || dec.Records[0].Language != "fr" || dec.Records[0].Content != "Tht" {
		t.Fatalf("unexpected decode response %+v", dec)
	}
}

func TestEncodeRawAndTLV(t *testing.T) {
	s := newTestServer(t, config.Default(), false)
	body := []byte(`{"records":[{"recordType":"text","language":"fr","content":"Tht"}]}`)

	rr := do(t, s, http.MethodPost, "/v1/encode?format=raw", "application/json", body)
	if rr.Code != http.StatusOK || !bytes.Equal(rr.Body.Bytes(), textImage) {
		t.Fatalf("unexpected raw encode %d % X", rr.Code, rr.Body.Bytes())
	}

	rr = do(t, s, http.MethodPost, "/v1/encode?format=raw&tlv=true", "application/json", body)
	want := append(append([]byte{0x03, byte(len(textImage))}, textImage...), 0xFE)
	if rr.Code != http.StatusOK || !bytes.Equal(rr.Body.Bytes(), want) {
		t.Fatalf("unexpected tlv encode %d % X", rr.Code, rr.Body.Bytes())
	}

	rr = do(t, s, http.MethodPost, "/v1/decode?tlv=1", "application/octet-stream", want)
	if rr.Code != http.StatusOK {
		t.Fatalf("tlv decode: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCodecErrors(t *testing.T) {
	fixed := config.Default()
	fixed.Limits.Fixed = true

	nine := `{"records":[` + strings.TrimSuffix(strings.Repeat(`{"content":"x"},`, 9), ",") + `]}`

	cases := []struct {
		name        string
		cfg         config.Config
		path        string
		contentType string
		body        []byte
		status      int
		kind        string
	}{
		{
			name: "truncated image", cfg: config.Default(), path: "/v1/decode",
			contentType: "application/octet-stream", body: textImage[:5],
			status: http.StatusUnprocessableEntity, kind: "slice_too_short",
		},
		{
			name: "unsupported tnf", cfg: config.Default(), path: "/v1/decode",
			contentType: "application/octet-stream", body: []byte{0xD2, 0x00, 0x00},
			status: http.StatusUnprocessableEntity, kind: "unsupported_tnf",
		},
		{
			name: "bad hex", cfg: config.Default(), path: "/v1/decode",
			contentType: "application/json", body: []byte(`{"hex":"zz"}`),
			status: http.StatusBadRequest,
		},
		{
			name: "missing ndef tlv", cfg: config.Default(), path: "/v1/decode?tlv=true",
			contentType: "application/octet-stream", body: []byte{0xFE},
			status: http.StatusUnprocessableEntity, kind: "tlv",
		},
		{
			name: "bad json", cfg: config.Default(), path: "/v1/encode",
			contentType: "application/json", body: []byte(`{`),
			status: http.StatusBadRequest,
		},
		{
			name: "unknown record type", cfg: config.Default(), path: "/v1/encode",
			contentType: "application/json", body: []byte(`{"records":[{"recordType":"uri"}]}`),
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "fixed capacity", cfg: fixed, path: "/v1/encode",
			contentType: "application/json", body: []byte(nine),
			status: http.StatusRequestEntityTooLarge, kind: "buffer_too_small",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, tc.cfg, false)
			rr := do(t, s, http.MethodPost, tc.path, tc.contentType, tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d body=%s", tc.status, rr.Code, rr.Body.String())
			}
			var body map[string]any
			decodeBody(t, rr, &body)
			if body["error"] == nil {
				t.Fatalf("expected error field, got %#v", body)
			}
			if tc.kind != "" && body["kind"] != tc.kind {
				t.Fatalf("expected kind %q, got %#v", tc.kind, body["kind"])
			}
		})
	}
}

func TestMessageLifecycle(t *testing.T) {
	cfg := config.Default()
	s := newTestServer(t, cfg, true)

	rr := do(t, s, http.MethodPost, "/v1/messages", "application/octet-stream", textImage)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		Size int    `json:"size"`
	}
	decodeBody(t, rr, &created)
	if created.ID == "" || created.Size != len(textImage) {
		t.Fatalf("unexpected create response %+v", created)
	}

	rr = do(t, s, http.MethodGet, "/v1/messages/"+created.ID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.ID != created.ID || len(got.Records) != 1 || got.Records[0].Content != "Tht" {
		t.Fatalf("unexpected get response %+v", got)
	}

	rr = do(t, s, http.MethodGet, "/v1/messages/"+created.ID+"/raw", "", nil)
	if rr.Code != http.StatusOK || !bytes.Equal(rr.Body.Bytes(), textImage) {
		t.Fatalf("unexpected raw response %d % X", rr.Code, rr.Body.Bytes())
	}

	rr = do(t, s, http.MethodDelete, "/v1/messages/"+created.ID, "", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	rr = do(t, s, http.MethodGet, "/v1/messages/"+created.ID, "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rr.Code)
	}
}

func TestCreateFromRecords(t *testing.T) {
	s := newTestServer(t, config.Default(), true)
	rr := do(t, s, http.MethodPost, "/v1/messages", "application/json",
		[]byte(`{"records":[{"recordType":"external","domain":"ex.com","type":"t","payload":"YQ=="}]}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, http.MethodPost, "/v1/messages", "application/octet-stream", []byte{0xD1})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid image: expected 422, got %d", rr.Code)
	}
}

func TestMessageRoutesErrors(t *testing.T) {
	disabled := newTestServer(t, config.Default(), false)
	if rr := do(t, disabled, http.MethodPost, "/v1/messages", "application/octet-stream", textImage); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without store, got %d", rr.Code)
	}
	if rr := do(t, disabled, http.MethodGet, "/v1/messages/anything", "", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without store, got %d", rr.Code)
	}

	enabled := newTestServer(t, config.Default(), true)
	if rr := do(t, enabled, http.MethodGet, "/v1/messages/not-a-ksuid", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, config.Default(), false)
	_ = do(t, s, http.MethodPost, "/v1/decode", "application/octet-stream", textImage)

	rr := do(t, s, http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ndef_codec_operations_total") {
		t.Fatalf("codec metrics missing from /metrics output")
	}
}

func TestRequestBodyLimit(t *testing.T) {
	s := newTestServer(t, config.Default(), true)
	huge := strings.Repeat("x", maxBodyBytes)

	cases := []struct {
		name        string
		path        string
		contentType string
		body        []byte
	}{
		{"encode records", "/v1/encode", "application/json", []byte(`{"records":[{"content":"` + huge + `"}]}`)},
		{"decode hex", "/v1/decode", "application/json", []byte(`{"hex":"` + huge + `"}`)},
		{"decode raw", "/v1/decode", "application/octet-stream", []byte(huge + "x")},
		{"create records", "/v1/messages", "application/json", []byte(`{"records":[{"content":"` + huge + `"}]}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, tc.path, tc.contentType, tc.body)
			if rr.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("expected 413, got %d body=%.200s", rr.Code, rr.Body.String())
			}
		})
	}
}
