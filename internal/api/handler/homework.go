package handler

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

const homeworkField = "file"

// homeworkFile 从 multipart 表单读取唯一的作业文件，失败时写入 400
func homeworkFile(c *gin.Context, maxFiles int) (*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form with a file field is required")
		return nil, false
	}
	files := form.File[homeworkField]
	if len(files) == 0 {
		response.BadRequest(c, "file is required")
		return nil, false
	}
	if maxFiles > 0 && len(files) > maxFiles {
		response.BadRequest(c, fmt.Sprintf("at most %d file(s) can be uploaded", maxFiles))
		return nil, false
	}
	return files[0], true
}

// uploadInfo 文件名、MIME 与大小；未声明 Content-Type 时按扩展名推断
func uploadInfo(fh *multipart.FileHeader) *dto.UploadHomework {
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
			mimeType = byExt
		}
	}
	return &dto.UploadHomework{FileName: fh.Filename, MimeType: mimeType, Size: fh.Size}
}

// serveHomework 以存储时记录的 Content-Type 返回文件流
func serveHomework(c *gin.Context, hw *model.Homework, rc io.ReadCloser) {
	defer rc.Close()

	meta := hw.Meta.Data()
	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := meta.OriginalName
	if name == "" {
		name = "homework-" + strconv.FormatUint(uint64(hw.ID), 10)
	}

	c.DataFromReader(http.StatusOK, meta.Size, contentType, rc, map[string]string{
		"Content-Disposition": "attachment; filename*=UTF-8''" + url.QueryEscape(name),
	})
}
