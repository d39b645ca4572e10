// ABOUTME: Streaming multipart/form-data encoder for document uploads and replies
// ABOUTME: Files are copied from disk through an io.Pipe instead of being buffered

package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// FilesField is the multipart field name used for every attached file
const FilesField = "files"

type formField struct {
	name  string
	value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody returns a reader producing the encoded form and its content type.
// The writer goroutine exits when the reader is drained or closed.
func multipartBody(fields []formField, files []File) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, fields, files)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

// checkFiles fails early on unreadable attachments so the error is not
// reported as a transport failure halfway through the upload
func checkFiles(files []File) error {
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			return fmt.Errorf("attached file %q: %w", f.Path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("attached file %q is a directory", f.Path)
		}
	}
	return nil
}

func writeMultipart(mw *multipart.Writer, fields []formField, files []File) error {
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return err
		}
	}
	for _, f := range files {
		if err := writeFilePart(mw, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFilePart(mw *multipart.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer src.Close()

	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	contentType := f.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FilesField, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}
