package request_models

type DownloadRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=20,dive,url"`
}
