package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccessWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	Success[any](c, 0, nil, "Successfully retrieved")

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["state"] != StateSuccess || body["message"] != "Successfully retrieved" || body["request_id"] != "rid-1" {
		t.Fatalf("body = %v", body)
	}
	if v, ok := body["data"]; !ok || v != nil {
		t.Fatalf("data should be present and null, got %v (present=%v)", v, ok)
	}
}

func TestErrorWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	resp := Error[any](c, http.StatusNotFound, "No department was specified", nil)

	if resp.Status != http.StatusNotFound || w.Code != http.StatusNotFound {
		t.Fatalf("status = %d / %d", resp.Status, w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["state"] != StateFailed || body["status"] != float64(404) {
		t.Fatalf("body = %v", body)
	}
}

func TestAbortStopsChain(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, http.StatusUnauthorized, "missing session token", nil)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("aborted=%v code=%d", c.IsAborted(), w.Code)
	}
}
