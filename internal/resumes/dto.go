package resumes

import "time"

type ResumeResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	IsActive     bool      `json:"isActive"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ID:           r.ID,
		Filename:     r.Filename,
		OriginalName: r.OriginalName,
		Path:         r.Path,
		Size:         r.Size,
		MimeType:     r.MimeType,
		IsActive:     r.IsActive,
		UploadedAt:   r.CreatedAt,
	}
}
