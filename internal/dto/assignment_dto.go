package dto

type LinkDoctorRequest struct {
	DoctorCode string `json:"doctor_code"`
}

type LinkDoctorResponse struct {
	Message string         `json:"message"`
	Doctor  *DoctorSummary `json:"doctor"`
}
