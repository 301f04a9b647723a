package dtos

import "mime/multipart"

// ApplicationForm is the multipart body of POST /applications. Skills arrive
// as a JSON-encoded list of strings.
type ApplicationForm struct {
	Name        string                `form:"name" binding:"required"`
	Email       string                `form:"email" binding:"required,email"`
	Position    string                `form:"position" binding:"required"`
	Company     string                `form:"company" binding:"required"`
	JobID       uint                  `form:"jobId" binding:"required"`
	Phone       string                `form:"phone"`
	Skills      string                `form:"skills"`
	CoverLetter string                `form:"coverLetter"`
	Resume      *multipart.FileHeader `form:"resume"`
}

type StatusUpdateRequest struct {
	Status       string `json:"status" binding:"required"`
	EmailContent string `json:"emailContent"`
	EmailSubject string `json:"emailSubject"`
}

// ApplicationUpdateRequest writes fields directly. A status set here does not
// add a timeline entry.
type ApplicationUpdateRequest struct {
	Name        *string   `json:"name"`
	Email       *string   `json:"email" binding:"omitempty,email"`
	Position    *string   `json:"position"`
	Company     *string   `json:"company"`
	Phone       *string   `json:"phone"`
	Skills      *[]string `json:"skills"`
	CoverLetter *string   `json:"coverLetter"`
	Status      *string   `json:"status"`
}

type ApplicationQuery struct {
	Status string `form:"status"`
	JobID  uint   `form:"jobId"`
	Query  string `form:"q"`
}
