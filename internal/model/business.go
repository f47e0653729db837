package model

type BusinessProfile struct {
	UserID       string `json:"user_id"`
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	Industry     string `json:"industry,omitempty"`
	Website      string `json:"website,omitempty"`
	UpdatedAt    int64  `json:"updated_at"`
}
