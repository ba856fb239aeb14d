package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tryOnPrompt = "Dress the person from the first image with the pants from the second image " +
	"and the shirt from the third image. Keep the person's pose, face and background unchanged. " +
	"Return a single photorealistic image."

type tryOnImageInput struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type tryOnRequestBody struct {
	Model string `json:"model"`
	Input []struct {
		Role    string            `json:"role"`
		Content []tryOnImageInput `json:"content"`
	} `json:"input"`
	Tools []map[string]string `json:"tools"`
}

type tryOnResponseBody struct {
	Output []struct {
		Type   string `json:"type"`
		Result string `json:"result"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// generateTryOn forwards a person photo plus a pants and a shirt photo to the
// image generation API and returns the rendered outfit. Each image arrives as
// an uploaded file or as a URL in the matching form field.
func (s *Server) generateTryOn(c *gin.Context) {
	if s.config.OpenAI.APIKey == "" {
		fail(c, 500, "Chưa cấu hình OpenAI API key.")
		return
	}

	images := make([]string, 0, 3)
	for _, field := range []string{"bodyImage", "pantImage", "shirtImage"} {
		dataURL, err := s.imageFromForm(c, field)
		if err != nil {
			s.logger.Warn("try-on image", zap.String("field", field), zap.Error(err))
			fail(c, 400, fmt.Sprintf("Thiếu hoặc không đọc được ảnh %s.", field))
			return
		}
		images = append(images, dataURL)
	}

	result, err := s.callImageGeneration(c, images)
	if err != nil {
		s.logger.Error("try-on generation", zap.Error(err))
		fail(c, 502, "Tạo ảnh thử đồ thất bại.")
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Virtual try-on completed successfully",
		"data": gin.H{
			"imageUrl":  "data:image/png;base64," + result,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// imageFromForm reads the named field as an uploaded file, falling back to a
// URL posted in the form body, and returns the content as a data URL.
func (s *Server) imageFromForm(c *gin.Context, field string) (string, error) {
	if file, err := c.FormFile(field); err == nil {
		if file.Size > s.config.Upload.MaxFileMB<<20 {
			return "", fmt.Errorf("field %s exceeds %dMB", field, s.config.Upload.MaxFileMB)
		}
		return encodeUpload(file)
	}
	if url := c.PostForm(field); url != "" {
		return s.fetchRemoteImage(c, url)
	}
	return "", fmt.Errorf("field %s missing", field)
}

func encodeUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func (s *Server) fetchRemoteImage(c *gin.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func (s *Server) callImageGeneration(c *gin.Context, images []string) (string, error) {
	content := []tryOnImageInput{{Type: "input_text", Text: tryOnPrompt}}
	for _, img := range images {
		content = append(content, tryOnImageInput{Type: "input_image", ImageURL: img})
	}

	body := tryOnRequestBody{
		Model: s.config.OpenAI.Model,
		Tools: []map[string]string{{"type": "image_generation"}},
	}
	body.Input = append(body.Input, struct {
		Role    string            `json:"role"`
		Content []tryOnImageInput `json:"content"`
	}{Role: "user", Content: content})

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		s.config.OpenAI.BaseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.OpenAI.APIKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed tryOnResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("image generation: %s", parsed.Error.Message)
	}
	for _, out := range parsed.Output {
		if out.Type == "image_generation_call" && out.Result != "" {
			return out.Result, nil
		}
	}
	return "", fmt.Errorf("no image in response (status %d)", resp.StatusCode)
}
