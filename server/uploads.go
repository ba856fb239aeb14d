package server

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUpload writes one uploaded file under the configured directory with a
// generated name and returns that name.
func (s *Server) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.config.Upload.Dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.config.Upload.Dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Server) uploadSingle(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, 400, "Không có file.")
		return
	}
	if file.Size > s.config.Upload.MaxFileMB<<20 {
		fail(c, 400, "File quá lớn.")
		return
	}

	name, err := s.saveUpload(c, file)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "url": "/uploads/" + name})
}

func (s *Server) uploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		fail(c, 400, "Không có file nào được tải lên.")
		return
	}

	files := form.File["images"]
	if len(files) > s.config.Upload.MaxFiles {
		fail(c, 400, "Quá nhiều file.")
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > s.config.Upload.MaxFileMB<<20 {
			fail(c, 400, "File quá lớn.")
			return
		}
		name, err := s.saveUpload(c, file)
		if err != nil {
			serverError(c, err)
			return
		}
		urls = append(urls, "/uploads/"+name)
	}

	c.JSON(200, gin.H{"success": true, "urls": urls})
}

func (s *Server) serveImage(c *gin.Context) {
	// Base strips any path traversal out of the request
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(s.config.Upload.Dir, filename)

	if _, err := os.Stat(path); err != nil {
		fail(c, 404, "Ảnh không tồn tại.")
		return
	}
	c.File(path)
}
