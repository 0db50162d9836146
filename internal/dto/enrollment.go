package dto

// ── 选课与评分 DTO ──

// TakeCourseRequest 学生选课
type TakeCourseRequest struct {
	CourseID uint `json:"course_id" binding:"required,min=1"`
}

// PutMarkRequest 讲师打分
type PutMarkRequest struct {
	Mark *int `json:"mark" binding:"required,min=0"`
}

// CreateFeedbackRequest 讲师评语
type CreateFeedbackRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// UploadHomework 作业上传的文件信息（由 multipart 解析得到）
type UploadHomework struct {
	FileName string
	MimeType string
	Size     int64
}
