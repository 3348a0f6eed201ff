package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/internal/application"
	"github.com/clinic-suite/clinic-backend/internal/interface/middleware"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/response"
	"github.com/clinic-suite/clinic-backend/pkg/validation"
)

type DoctorHandler struct {
	Svc    *application.DoctorService
	Logger *logrus.Logger
}

func NewDoctorHandler(svc *application.DoctorService, logger *logrus.Logger) *DoctorHandler {
	return &DoctorHandler{Svc: svc, Logger: logger}
}

// doctorRequest is the create/update payload. The address travels flat as
// street, city and parish.
type doctorRequest struct {
	Email      *string `json:"email" form:"email" binding:"omitempty,email"`
	Password   *string `json:"password" form:"password"`
	Username   *string `json:"username" form:"username"`
	FName      *string `json:"fname" form:"fname"`
	LName      *string `json:"lname" form:"lname"`
	Department *string `json:"department" form:"department"`
	ImageURL   *string `json:"imageUrl" form:"imageUrl" binding:"omitempty,url"`
	Street     *string `json:"street" form:"street"`
	City       *string `json:"city" form:"city"`
	Parish     *string `json:"parish" form:"parish"`
}

var doctorFormFields = fieldSet("email", "password", "username", "fname", "lname",
	"department", "imageUrl", "street", "city", "parish")

func (r doctorRequest) toInput() application.DoctorInput {
	return application.DoctorInput{
		Email:      r.Email,
		Password:   r.Password,
		Username:   r.Username,
		FName:      r.FName,
		LName:      r.LName,
		Department: r.Department,
		ImageURL:   r.ImageURL,
		Street:     r.Street,
		City:       r.City,
		Parish:     r.Parish,
	}
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// List GET /api/doctors[?department=]
func (h *DoctorHandler) List(c *gin.Context) {
	if c.Query("department") != "" {
		h.ListByDepartment(c)
		return
	}
	doctors, err := h.Svc.ListDoctors(c.Request.Context(), "")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, doctors, "Successfully retrieved")
}

// ListByDepartment GET /api/doctors/department?department=
func (h *DoctorHandler) ListByDepartment(c *gin.Context) {
	doctors, err := h.Svc.ListDoctorsByDepartment(c.Request.Context(), c.Query("department"))
	if err != nil {
		status := http.StatusBadRequest
		if application.KindOf(err) == application.KindNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, doctors, "Successfully Retrieved")
}

// Search GET /api/doctors/search?q=&size=
func (h *DoctorHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	hits, err := h.Svc.SearchDoctors(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		helpers.LogWarn(h.Logger, "doctor search failed", err, logrus.Fields{"q": q.Q})
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "Successfully retrieved")
}

// Get GET /api/doctors/:id. An unknown id is a success with null data.
func (h *DoctorHandler) Get(c *gin.Context) {
	d, err := h.Svc.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, d, "Successfully retrieved")
}

// Create POST /api/doctors (JSON or multipart with an optional "image" file)
func (h *DoctorHandler) Create(c *gin.Context) {
	var req doctorRequest
	if err := bindPayload(c, &req, doctorFormFields); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	var img application.ImageUpload
	if v, ok := c.Get(middleware.CtxUploadKey); ok {
		if p, ok := v.(application.ImageUpload); ok {
			img = p
		}
	}

	d, err := h.Svc.CreateDoctor(c.Request.Context(), req.toInput(), img)
	if err != nil {
		if errors.Is(err, application.ErrImageUpload) {
			response.Error[any](c, http.StatusInternalServerError, application.ErrImageUpload.Error(), nil)
			return
		}
		if application.KindOf(err) == application.KindStoreFailure {
			helpers.LogError(h.Logger, "create doctor failed", err, nil)
		}
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, d, "Successfully created doctor")
}

// Update PATCH /api/doctors/:id. An unknown id is a success with null data.
func (h *DoctorHandler) Update(c *gin.Context) {
	var req doctorRequest
	if err := bindPayload(c, &req, doctorFormFields); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.UpdateDoctor(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, d, "Successfully updated")
}

// Delete DELETE /api/doctors/:id
func (h *DoctorHandler) Delete(c *gin.Context) {
	d, err := h.Svc.DeleteDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, d, "Successfully Deleted")
}
