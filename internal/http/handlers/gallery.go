package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"adjectivemagic/internal/session"
	"adjectivemagic/pkg/zip"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DownloadGallery sends every gallery image of the session as one zip file.
func (a *App) DownloadGallery(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.pageSession(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()

	files := make([]zip.File, 0, len(snap.Gallery))
	for i, entry := range snap.Gallery {
		mime, data, err := decodeDataURL(entry.ImageRef)
		if err != nil {
			a.log().Warn().Err(err).Int("entry", i).Msg("skip gallery entry")
			continue
		}
		files = append(files, zip.File{
			Name:     galleryFilename(i, entry, mime),
			Data:     data,
			Modified: entry.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="adjective-magic-gallery.zip"`)
	w.Header().Set("Cache-Control", "no-store")
	if err := zip.Write(w, files); err != nil {
		a.log().Error().Err(err).Msg("write gallery archive")
	}
}

func galleryFilename(i int, e session.GalleryEntry, mime string) string {
	ext, ok := imageExtensions[mime]
	if !ok {
		ext = ".img"
	}
	parts := []string{fmt.Sprintf("%02d", i+1), e.Name1, "vs", e.Name2}
	if e.Adjective != "" {
		parts = append(parts, e.Adjective)
	}
	name := strings.Join(parts, "-")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '"':
			return '_'
		}
		return r
	}, name)
	return name + ext
}

func decodeDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, errors.New("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data url")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data url is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url: %w", err)
	}
	return mime, data, nil
}
