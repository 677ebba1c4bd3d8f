package search

import (
	"context"

	"github.com/osintforge/intelx-mcp/intelx"
	"github.com/osintforge/intelx-mcp/pseudonym"
)

// defaultPreviewLines is how much of a file a preview shows when the
// caller does not say.
const defaultPreviewLines = 8

// FilePreviewRequest asks for the first lines of a file. StorageID is the
// pseudonymized integer from an earlier search result.
type FilePreviewRequest struct {
	StorageID   int
	Bucket      string
	Format      int
	Lines       int
	ContentType int
	MediaType   int
}

// FilePreview returns a short text preview of a file's content.
func (s *Service) FilePreview(ctx context.Context, req FilePreviewRequest) (string, error) {
	storageID, err := s.resolve(pseudonym.FieldStorageID, req.StorageID)
	if err != nil {
		return "", err
	}
	lines := req.Lines
	if lines <= 0 {
		lines = defaultPreviewLines
	}
	return s.client.FilePreview(ctx, intelx.PreviewRequest{
		StorageID:   storageID,
		Bucket:      req.Bucket,
		Format:      req.Format,
		Lines:       lines,
		ContentType: req.ContentType,
		MediaType:   req.MediaType,
	})
}

// FileViewRequest asks for a file's full contents.
type FileViewRequest struct {
	StorageID int
	Bucket    string
	Format    int
}

// FileView returns a file's full contents.
func (s *Service) FileView(ctx context.Context, req FileViewRequest) (string, error) {
	storageID, err := s.resolve(pseudonym.FieldStorageID, req.StorageID)
	if err != nil {
		return "", err
	}
	return s.client.FileView(ctx, intelx.ViewRequest{
		StorageID: storageID,
		Bucket:    req.Bucket,
		Format:    req.Format,
	})
}

// FileReadRequest asks for a file's raw bytes. SystemID is the
// pseudonymized integer from an earlier search result.
type FileReadRequest struct {
	SystemID int
	Bucket   string
	Type     int
	Name     string
}

// FileRead returns a file's raw bytes as text.
func (s *Service) FileRead(ctx context.Context, req FileReadRequest) (string, error) {
	systemID, err := s.resolve(pseudonym.FieldSystemID, req.SystemID)
	if err != nil {
		return "", err
	}
	data, err := s.client.FileRead(ctx, intelx.ReadRequest{
		SystemID: systemID,
		Bucket:   req.Bucket,
		Type:     req.Type,
		Name:     req.Name,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileTree returns the pseudonymized item hierarchy under a storage
// identifier. An upstream that cannot build the hierarchy surfaces as
// intelx.ErrTreeUnavailable.
func (s *Service) FileTree(ctx context.Context, storageID int, bucket string) (any, error) {
	raw, err := s.resolve(pseudonym.FieldStorageID, storageID)
	if err != nil {
		return nil, err
	}
	tree, err := s.client.FileTree(ctx, raw, bucket)
	if err != nil {
		return nil, err
	}
	return s.ids.Normalize(tree), nil
}

// Selectors returns the human-readable selectors extracted from an item.
func (s *Service) Selectors(ctx context.Context, systemID int) (any, error) {
	raw, err := s.resolve(pseudonym.FieldSystemID, systemID)
	if err != nil {
		return nil, err
	}
	listing, err := s.client.SelectorList(ctx, raw)
	if err != nil {
		return nil, err
	}
	return s.ids.Normalize(listing), nil
}

// Capabilities returns the account's capability information, pseudonymized.
// Concurrent callers collapse onto one upstream request; nothing is cached
// once the call returns.
func (s *Service) Capabilities(ctx context.Context) (any, error) {
	v, err, _ := s.capabilities.Do("capabilities", func() (any, error) {
		return s.client.Capabilities(ctx)
	})
	if err != nil {
		return nil, err
	}
	return s.ids.Normalize(v), nil
}
