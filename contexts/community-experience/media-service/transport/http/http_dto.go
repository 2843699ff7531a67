package http

type UploadResponse struct {
	URL      string `json:"url"`
	Type     string `json:"type,omitempty"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
