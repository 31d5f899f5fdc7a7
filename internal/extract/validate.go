package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biasharafund/discounting/constants"
)

// ValidateFile checks existence, extension, size, and content integrity
// before any recognition work happens. The returned error message is
// user-facing; callers surface it in the result's error list.
func ValidateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file does not exist")
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %q; supported formats: %s",
			ext, strings.Join(constants.SupportedExtList(), ", "))
	}

	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	if info.Size() > maxSize {
		return fmt.Errorf("file size (%.2f MB) exceeds maximum allowed size (%.1f MB)",
			float64(info.Size())/(1024*1024), float64(maxSize)/(1024*1024))
	}

	head, err := readHead(path, 16)
	if err != nil {
		return fmt.Errorf("file is unreadable: %v", err)
	}
	if !constants.MatchesMagic(ext, head) {
		return fmt.Errorf("file does not appear to be a valid %s", strings.ToUpper(ext))
	}
	return nil
}

// ValidateMIME checks a declared MIME type against the fixed mapping for
// the file's extension. An empty MIME (not determinable) passes; a
// mismatch is rejected.
func ValidateMIME(filename, mimeType string) error {
	if mimeType == "" {
		return nil
	}
	// strip any parameters ("image/jpeg; charset=...")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext := constants.NormalizeExt(filepath.Ext(filename))
	expected, ok := constants.MIMETypes[ext]
	if !ok {
		return fmt.Errorf("unsupported format %q; supported formats: %s",
			ext, strings.Join(constants.SupportedExtList(), ", "))
	}
	if !strings.EqualFold(mimeType, expected) {
		return fmt.Errorf("file MIME type %q does not match extension %q", mimeType, "."+ext)
	}
	return nil
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, n)
	read, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return head[:read], nil
}
