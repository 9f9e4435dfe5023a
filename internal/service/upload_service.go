package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/logger"
)

var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// UploadService 头像文件上传服务
type UploadService struct {
	cfg *config.Config
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveAvatar 保存用户头像，文件名固定为 <用户ID>.<扩展名>，并清理旧扩展名的残留文件
func (s *UploadService) SaveAvatar(userID uint, file *multipart.FileHeader) (string, error) {
	rule := s.cfg.Rule.Avatar
	mimeType := file.Header.Get("Content-Type")
	ext, allowed := "", false
	for _, m := range rule.MimeTypes {
		if strings.EqualFold(mimeType, m) {
			ext, allowed = mimeExtensions[strings.ToLower(m)], true
			break
		}
	}
	if !allowed || ext == "" {
		return "", response.ErrBadRequest("Invalid mime type!")
	}
	if file.Size > rule.MaxSize {
		return "", response.ErrBadRequest("Too big in size!")
	}

	dir := filepath.Join(s.cfg.Upload.PublicDir, s.cfg.Upload.AvatarDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", response.ErrInternal("", err)
	}
	filename := fmt.Sprintf("%d.%s", userID, ext)

	src, err := file.Open()
	if err != nil {
		return "", response.ErrInternal("", err)
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", response.ErrInternal("", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", response.ErrInternal("", err)
	}

	s.deleteStaleAvatars(userID, filename)
	return filename, nil
}

// deleteStaleAvatars 删除同一用户以其他扩展名存放的旧头像
func (s *UploadService) deleteStaleAvatars(userID uint, keep string) {
	dir := filepath.Join(s.cfg.Upload.PublicDir, s.cfg.Upload.AvatarDir)
	for _, m := range s.cfg.Rule.Avatar.MimeTypes {
		ext := mimeExtensions[strings.ToLower(m)]
		if ext == "" {
			continue
		}
		name := fmt.Sprintf("%d.%s", userID, ext)
		if name == keep {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			logger.Warnw("avatar_stale_delete_failed", "path", path, "error", err)
		}
	}
}
