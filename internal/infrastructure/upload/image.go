package upload

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// maxImageBytes は端末カメラの写真として十分な上限。
const maxImageBytes = 20 << 20

// ImageFromFile reads a photo from disk and sniffs its content type.
func ImageFromFile(path string) (domain.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if info.Size() > maxImageBytes {
		return domain.Image{}, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrUpload, path, maxImageBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	return domain.Image{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func contentTypeOf(image domain.Image) string {
	if image.ContentType != "" {
		return image.ContentType
	}
	if byExt := mime.TypeByExtension(filepath.Ext(image.Filename)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(image.Data)
}

func fileNameOf(image domain.Image) string {
	if image.Filename != "" {
		return image.Filename
	}
	return "capture.jpg"
}
