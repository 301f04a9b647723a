package dtos

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional Fields
	Department     string   `json:"department"`
	Location       string   `json:"location"`
	Company        string   `json:"company"`
	EmploymentType string   `json:"employmentType"`
	Requirements   []string `json:"requirements"`
	SalaryRange    string   `json:"salaryRange"`
	PostingDate    string   `json:"postingDate"`    // defaults to now
	ExpirationDate string   `json:"expirationDate"` // YYYY-MM-DD or RFC 3339
	Status         string   `json:"status"`         // defaults to "Active"
}

// JobUpdateRequest is a partial update: nil fields are left alone. An empty
// expirationDate clears it.
type JobUpdateRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Department     *string   `json:"department"`
	Location       *string   `json:"location"`
	Company        *string   `json:"company"`
	EmploymentType *string   `json:"employmentType"`
	Requirements   *[]string `json:"requirements"`
	SalaryRange    *string   `json:"salaryRange"`
	PostingDate    *string   `json:"postingDate"`
	ExpirationDate *string   `json:"expirationDate"`
	Status         *string   `json:"status"`
}
