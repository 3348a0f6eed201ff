package handlers

import (
	"errors"
	"io"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/clinic-suite/clinic-backend/pkg/validation"
)

// bindPayload binds a JSON, urlencoded or multipart body into dst. Unknown
// keys are rejected in every encoding; an empty JSON body binds as an empty
// payload so the service can report it in its own words.
func bindPayload(c *gin.Context, dst any, allowed map[string]struct{}) error {
	if err := c.ShouldBind(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if c.ContentType() == binding.MIMEJSON || c.Request.PostForm == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return validation.CheckFormFields(keys, allowed)
}

func fieldSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
