package constants

import (
	"bytes"
	"strings"
)

const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// SupportedExtensions holds the accepted file extensions for invoice uploads.
var SupportedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// MIMETypes maps a supported extension to the only MIME type accepted for it.
var MIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// magicBytes maps a supported extension to its leading-byte signature.
var magicBytes = map[string][]byte{
	"pdf":  []byte("%PDF"),
	"jpg":  {0xFF, 0xD8, 0xFF},
	"jpeg": {0xFF, 0xD8, 0xFF},
	"png":  {0x89, 'P', 'N', 'G'},
}

// MaxFileSize is the default upload ceiling for invoice documents.
const MaxFileSize = 10 * 1024 * 1024 // 10 MB

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsSupportedExt reports whether a normalized extension is accepted.
func IsSupportedExt(ext string) bool {
	_, ok := SupportedExtensions[ext]
	return ok
}

// SupportedExtList returns the accepted extensions in a stable order,
// for use in error messages.
func SupportedExtList() []string {
	return []string{"pdf", "jpg", "jpeg", "png"}
}

// MapExtToFormat maps a normalized extension to its source format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch ext {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	}
	return ""
}

// MatchesMagic reports whether the leading bytes of a file match the
// signature expected for the given normalized extension. Extensions with
// no registered signature match trivially.
func MatchesMagic(ext string, head []byte) bool {
	sig, ok := magicBytes[ext]
	if !ok {
		return true
	}
	return bytes.HasPrefix(head, sig)
}
