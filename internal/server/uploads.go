package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// saveUpload spools a multipart file to local disk so it can be handed to
// object storage by path. The media layer removes the file after upload.
func (s *Server) saveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	tmp, err := os.CreateTemp(s.uploadDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// formFile fetches a single named upload, reporting ok=false when absent.
func (s *Server) formFile(r *http.Request, field string) (string, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", false, nil
		}
		return "", false, err
	}
	path, err := s.saveUpload(file, header)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// formFiles spools every upload under the named field.
func (s *Server) formFiles(r *http.Request, field string) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			removeAll(paths)
			return nil, fmt.Errorf("open upload: %w", err)
		}
		path, err := s.saveUpload(file, header)
		if err != nil {
			removeAll(paths)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
