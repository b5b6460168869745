package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"adjectivemagic/internal/domain"
	"adjectivemagic/internal/storage"
)

// multipartOverhead is slack for boundaries and headers on top of the photo
// size limit.
const multipartOverhead = 64 << 10

// receivePhoto stores the "photo" field of a multipart request. Content that
// does not sniff as an image is dropped again and reported as
// domain.ErrUnsupportedMedia.
func (a *App) receivePhoto(w http.ResponseWriter, r *http.Request) (storage.FileHandle, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, storage.ErrTooLarge
		}
		return nil, &domain.Error{Kind: domain.ErrUnsupportedMedia, Err: fmt.Errorf("read photo field: %w", err)}
	}
	defer file.Close()

	h, err := a.Uploads.PutReader(r.Context(), header.Filename, file, a.MaxUploadBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, storage.ErrTooLarge
		}
		return nil, err
	}
	if !strings.HasPrefix(h.MIMEType(), "image/") {
		_ = a.Uploads.Delete(h)
		return nil, &domain.Error{Kind: domain.ErrUnsupportedMedia, Err: fmt.Errorf("content type %s", h.MIMEType())}
	}

	a.log().Debug().
		Str("filename", header.Filename).
		Str("mime", h.MIMEType()).
		Int64("bytes", h.Size()).
		Msg("photo received")
	return h, nil
}
