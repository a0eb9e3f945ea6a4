package valueobjects

import (
	"strings"

	pkgerrors "nodular/pkg/errors"
)

// FileRef references the content carried by a file-attachment bubble.
// The content URL is a temporary handle owned by the bubble; Release
// revokes it and must be called exactly once, when the bubble is
// removed from the board.
type FileRef struct {
	name       string
	mimeType   string
	contentURL string
	release    func()
	released   bool
}

// NewFileRef creates a file reference
func NewFileRef(name, mimeType, contentURL string) (*FileRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("file name cannot be empty")
	}
	if contentURL == "" {
		return nil, pkgerrors.NewValidationError("file content URL cannot be empty")
	}

	return &FileRef{
		name:       name,
		mimeType:   mimeType,
		contentURL: contentURL,
	}, nil
}

// OnRelease registers the hook invoked when the reference is released
func (f *FileRef) OnRelease(fn func()) {
	f.release = fn
}

// Name returns the file name
func (f *FileRef) Name() string {
	return f.name
}

// MIMEType returns the file MIME type
func (f *FileRef) MIMEType() string {
	return f.mimeType
}

// ContentURL returns the temporary content URL, or empty once released
func (f *FileRef) ContentURL() string {
	if f.released {
		return ""
	}
	return f.contentURL
}

// Released reports whether the content handle has been revoked
func (f *FileRef) Released() bool {
	return f.released
}

// Release revokes the content handle. Releasing twice is a no-op.
func (f *FileRef) Release() {
	if f.released {
		return
	}
	f.released = true
	if f.release != nil {
		f.release()
	}
}
