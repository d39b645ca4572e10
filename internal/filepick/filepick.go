// ABOUTME: Resolves local paths into attachable file descriptors
// ABOUTME: Expands ~, checks regular files and detects the MIME type

package filepick

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
)

// sniffLen is how much of a file http.DetectContentType looks at
const sniffLen = 512

// FromPaths builds a descriptor for every path. It fails on the first path
// that is missing, unreadable or not a regular file.
func FromPaths(paths ...string) ([]client.File, error) {
	files := make([]client.File, 0, len(paths))
	for _, p := range paths {
		f, err := fromPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func fromPath(raw string) (client.File, error) {
	path := ExpandPath(strings.TrimSpace(raw))
	if path == "" {
		return client.File{}, fmt.Errorf("empty file path")
	}

	info, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return client.File{}, fmt.Errorf("file not found: %s", raw)
		case os.IsPermission(err):
			return client.File{}, fmt.Errorf("cannot read file: permission denied: %s", raw)
		default:
			return client.File{}, fmt.Errorf("error reading file %s: %w", raw, err)
		}
	}
	if !info.Mode().IsRegular() {
		return client.File{}, fmt.Errorf("not a regular file: %s", raw)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	mimeType, err := DetectMIME(abs)
	if err != nil {
		return client.File{}, err
	}
	return client.File{Path: abs, Name: filepath.Base(abs), MIMEType: mimeType}, nil
}

// DetectMIME looks the type up by extension and falls back to sniffing the content
func DetectMIME(path string) (string, error) {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// Static is a picker that always yields the same paths, used by the CLI
// where files arrive as arguments
type Static []string

// Pick resolves the paths
func (s Static) Pick(ctx context.Context) ([]client.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FromPaths(s...)
}
