package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/internal/application"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/response"
	"github.com/clinic-suite/clinic-backend/pkg/validation"
)

type MedicalRecordHandler struct {
	Svc    *application.MedicalRecordService
	Logger *logrus.Logger
}

func NewMedicalRecordHandler(svc *application.MedicalRecordService, logger *logrus.Logger) *MedicalRecordHandler {
	return &MedicalRecordHandler{Svc: svc, Logger: logger}
}

type createRecordRequest struct {
	Patient      string   `json:"patient" binding:"required,objectid"`
	Complaint    string   `json:"complaint"`
	Diagnosis    string   `json:"diagnosis"`
	Prescription string   `json:"prescription"`
	Comments     []string `json:"comments"`
}

type addCommentRequest struct {
	Comment string `json:"comment" form:"comment"`
}

// Create POST /api/medical-records
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rec, err := h.Svc.CreateRecord(c.Request.Context(), application.RecordInput{
		Patient:      req.Patient,
		Complaint:    req.Complaint,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		Comments:     req.Comments,
	})
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, rec, "Successfully created record")
}

// Get GET /api/medical-records/:id. An unknown id is a success with null data.
func (h *MedicalRecordHandler) Get(c *gin.Context) {
	rec, err := h.Svc.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, rec, "Successfully retrieved")
}

// ListByPatient GET /api/medical-records?patient=
func (h *MedicalRecordHandler) ListByPatient(c *gin.Context) {
	recs, err := h.Svc.ListRecordsByPatient(c.Request.Context(), c.Query("patient"))
	if err != nil {
		status := http.StatusBadRequest
		if application.KindOf(err) == application.KindNotFound {
			status = http.StatusNotFound
		}
		response.Error[any](c, status, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, recs, "Successfully retrieved")
}

// AddComment POST /api/medical-records/:id/comments
func (h *MedicalRecordHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := bindPayload(c, &req, fieldSet("comment")); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rec, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), req.Comment)
	if err != nil {
		switch application.KindOf(err) {
		case application.KindNotFound:
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		case application.KindInvalidInput:
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "add comment failed", err, logrus.Fields{"record_id": c.Param("id")})
			response.Error[any](c, http.StatusInternalServerError, err.Error(), nil)
		}
		return
	}
	response.Success(c, http.StatusOK, rec, "Successfully added comment")
}
