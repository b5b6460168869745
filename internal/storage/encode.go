package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"adjectivemagic/internal/domain"
)

// EncodeBase64 reads h once and returns its bytes as standard base64 with no
// data-URL prefix. Read failures are reported as domain.ErrEncodingFailed.
func EncodeBase64(ctx context.Context, h FileHandle) (string, error) {
	if h == nil {
		return "", &domain.Error{Kind: domain.ErrEncodingFailed, Err: fmt.Errorf("no file selected")}
	}
	rc, err := h.Open(ctx)
	if err != nil {
		return "", &domain.Error{Kind: domain.ErrEncodingFailed, Err: fmt.Errorf("open %s: %w", h.Filename(), err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", &domain.Error{Kind: domain.ErrEncodingFailed, Err: fmt.Errorf("read %s: %w", h.Filename(), err)}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// EncodePair encodes a and b concurrently. Both must succeed; the first
// failure fails the pair.
func EncodePair(ctx context.Context, a, b FileHandle) (string, string, error) {
	var encA, encB string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		encA, err = EncodeBase64(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		encB, err = EncodeBase64(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return encA, encB, nil
}
