package middleware

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/response"
)

const (
	CtxUploadKey    = "uploadImage"
	ImageFormField  = "image"
	MaxImageBytes   = 5 << 20
	imageObjectRoot = "doctors/"
)

// PendingImage is a checked image part that has not been written yet.
// Store uploads it once; later calls return the same location.
type PendingImage struct {
	up          helpers.ObjectUploader
	file        *multipart.FileHeader
	object      string
	contentType string
	location    string
}

func (p *PendingImage) Store(ctx context.Context) (string, error) {
	if p.location != "" {
		return p.location, nil
	}
	f, err := p.file.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	loc, err := p.up.Upload(ctx, p.object, p.contentType, f)
	if err != nil {
		return "", err
	}
	p.location = loc
	return loc, nil
}

// Stored reports whether Store has written the object.
func (p *PendingImage) Stored() bool { return p.location != "" }

// UploadImage checks the multipart "image" file, when one is sent, and puts a
// *PendingImage into the context under CtxUploadKey. The handler decides when
// to store it. A stored image is deleted again if the request ends with a
// non-2xx status. Requests that are not multipart, or carry no image, pass
// through untouched.
func UploadImage(up helpers.ObjectUploader, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Next()
			return
		}
		fh, err := c.FormFile(ImageFormField)
		if errors.Is(err, http.ErrMissingFile) {
			c.Next()
			return
		}
		if err != nil {
			response.Abort(c, http.StatusBadRequest, "invalid multipart payload", err.Error())
			return
		}
		if fh.Size > MaxImageBytes {
			response.Abort(c, http.StatusBadRequest, "image too large", map[string]string{ImageFormField: "must be at most 5MB"})
			return
		}
		ctype := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ctype, "image/") {
			response.Abort(c, http.StatusBadRequest, "invalid image", map[string]string{ImageFormField: "must be an image"})
			return
		}
		if up == nil {
			response.Abort(c, http.StatusInternalServerError, "image storage unavailable", nil)
			return
		}

		img := &PendingImage{
			up:          up,
			file:        fh,
			object:      imageObjectRoot + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename)),
			contentType: ctype,
		}
		c.Set(CtxUploadKey, img)
		c.Next()

		if img.Stored() && c.Writer.Status() >= http.StatusMultipleChoices {
			ctx := context.WithoutCancel(c.Request.Context())
			if err := up.Delete(ctx, img.object); err != nil {
				helpers.LogWarn(logger, "orphaned image not removed", err, logrus.Fields{"object": img.object})
			}
		}
	}
}
