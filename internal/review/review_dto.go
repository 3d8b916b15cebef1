package review

type ReviewFormRequest struct {
	Decision   string `json:"decision" binding:"required"`
	Comment    string `json:"comment"`
	ReviewedBy string `json:"reviewed_by" binding:"required,uuid"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	ReviewComments string `json:"review_comments"`
	ReviewedBy     string `json:"reviewed_by" binding:"required,uuid"`
}

type FinalApproveRequest struct {
	ReviewComments string `json:"review_comments"`
	ReviewedBy     string `json:"reviewed_by" binding:"required,uuid"`
}
