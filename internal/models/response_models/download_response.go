package response_models

type DownloadResponse struct {
	JobID      string `json:"job_id"`
	ResultPath string `json:"result_path"`
	FileCount  int    `json:"file_count"`
}
