package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegistryMountsUnderAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	var order []string
	reg.Use(func(c *gin.Context) { order = append(order, "mw"); c.Next() })
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { order = append(order, "handler"); c.Status(http.StatusNoContent) })
	}))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if len(order) != 2 || order[0] != "mw" {
		t.Fatalf("order = %v", order)
	}
}

func TestRegistryUnknownRouteEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}))
	reg.RegisterAll()

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodPost, "/api/ping", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		reg.Engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
		var env struct {
			State string `json:"state"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.State != "Failed" {
			t.Fatalf("%s %s: body %q", tc.method, tc.path, w.Body.String())
		}
	}
}
