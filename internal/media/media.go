// Package media normalizes attachment payloads. An image may arrive as raw bytes, a bare
// base64 string or a data URL; all three come out as a MIME type, the decoded bytes and a
// filename whose extension matches the type.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const OctetStream = "application/octet-stream"

var ErrEmptyPayload = errors.New("empty payload")

// File is a normalized payload.
type File struct {
	MIMEType string
	Data     []byte
	FileName string
}

var extensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/gif":       ".gif",
	"image/bmp":       ".bmp",
	"image/tiff":      ".tiff",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
	OctetStream:  ".bin",
}

// Extension returns the file extension for a MIME type, ".bin" when unknown.
func Extension(mimeType string) string {
	if ext, ok := extensions[baseType(mimeType)]; ok {
		return ext
	}
	return ".bin"
}

// IsImage reports whether the MIME type names a raster image the document builder can embed.
func IsImage(mimeType string) bool {
	switch baseType(mimeType) {
	case "image/png", "image/jpeg", "image/jpg", "image/gif", "image/bmp", "image/tiff", "image/webp":
		return true
	}
	return false
}

// Normalize decodes payload and names it baseName plus the extension for its type.
func Normalize(payload []byte, baseName string) (File, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return File{}, ErrEmptyPayload
	}

	var (
		data     []byte
		mimeType string
		err      error
	)

	switch {
	case bytes.HasPrefix(trimmed, []byte("data:")):
		mimeType, data, err = parseDataURL(string(trimmed))
		if err != nil {
			return File{}, err
		}
	case looksLikeBase64(trimmed):
		data, err = decodeBase64(string(trimmed))
		if err != nil {
			// valid alphabet but not decodable, treat as raw
			data = payload
		}
	default:
		data = payload
	}

	if len(data) == 0 {
		return File{}, ErrEmptyPayload
	}
	if mimeType == "" {
		mimeType = Sniff(data)
	}
	mimeType = baseType(mimeType)
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}

	return File{
		MIMEType: mimeType,
		Data:     data,
		FileName: SafeName(baseName) + Extension(mimeType),
	}, nil
}

// Sniff guesses a MIME type from content.
func Sniff(data []byte) string {
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff"
	}
	return baseType(http.DetectContentType(data))
}

func parseDataURL(s string) (string, []byte, error) {
	header, body, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url: missing comma")
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(params[0])
	encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			encoded = true
		}
	}

	if !encoded {
		data, err := url.PathUnescape(body)
		if err != nil {
			return "", nil, fmt.Errorf("malformed data url: %w", err)
		}
		return mimeType, []byte(data), nil
	}

	data, err := decodeBase64(body)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data url: %w", err)
	}
	return mimeType, data, nil
}

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/_\-\s]+={0,2}\s*$`)

func looksLikeBase64(b []byte) bool {
	return len(b) >= 4 && base64Alphabet.Match(b)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func baseType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mt
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// SafeName reduces name to a filesystem and archive safe stem.
func SafeName(name string) string {
	name = strings.TrimSuffix(name, ".")
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "file"
	}
	return name
}
