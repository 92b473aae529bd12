package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// MaxImageSize caps selectable images at 10 MiB.
const MaxImageSize = 10 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ErrSelectionChanged reports that the selection was removed or replaced
// while its upload was in flight; the uploaded result was discarded.
var ErrSelectionChanged = errors.New("selection changed during upload")

type ImageKind int

const (
	ImageNone ImageKind = iota
	// ImageLocal: a validated local selection shown before the upload
	// resolves.
	ImageLocal
	// ImageRemote: the server-confirmed URL.
	ImageRemote
)

// ImageUpload runs the validate -> preview -> upload pipeline for a listing
// image. The displayed image is an explicit two-phase value: a pending local
// selection or a confirmed remote URL, never an ambiguous mix, so a slow
// upload can't race a remove or replace.
type ImageUpload struct {
	client *Client

	mu        sync.Mutex
	confirmed string
	pending   *pendingImage

	// ErrMessage is the inline message for the last rejected selection or
	// failed upload.
	ErrMessage string
}

type pendingImage struct {
	name        string
	contentType string
	data        []byte
}

func NewImageUpload(c *Client) *ImageUpload {
	return &ImageUpload{client: c}
}

// Bind seeds the controller with an already-stored URL (edit mode).
func (u *ImageUpload) Bind(url string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.confirmed = url
	u.pending = nil
	u.ErrMessage = ""
}

// Select validates a local file and, on success, makes it the pending
// preview without waiting on the network. Drag-and-drop and click-to-browse
// both land here.
func (u *ImageUpload) Select(name, contentType string, size int64, r io.Reader) error {
	if !slices.Contains(allowedImageTypes, contentType) {
		return u.reject(&ValidationError{
			Message: "Invalid file type. Allowed types: " + strings.Join(allowedImageTypes, ", "),
		})
	}
	if size > MaxImageSize {
		return u.reject(&ValidationError{Message: "Image must be 10 MiB or smaller."})
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return u.reject(&ValidationError{Message: "Could not read the selected file."})
	}
	if int64(len(data)) > MaxImageSize {
		return u.reject(&ValidationError{Message: "Image must be 10 MiB or smaller."})
	}

	u.mu.Lock()
	u.pending = &pendingImage{name: name, contentType: contentType, data: data}
	u.ErrMessage = ""
	u.mu.Unlock()
	return nil
}

// Upload sends the pending selection. Success confirms the server URL;
// failure reverts the display to whatever was bound before the attempt. If
// the selection was removed or replaced mid-flight the result is discarded
// and Upload returns ErrSelectionChanged.
func (u *ImageUpload) Upload(ctx context.Context) (string, error) {
	u.mu.Lock()
	pending := u.pending
	u.mu.Unlock()

	if pending == nil {
		return "", &ValidationError{Message: "No image selected."}
	}

	result, err := u.client.UploadImage(ctx, pending.name, pending.contentType, bytes.NewReader(pending.data))

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.pending != pending {
		// The selection changed or was removed while uploading; this result
		// no longer applies.
		if err != nil {
			return "", err
		}
		return "", ErrSelectionChanged
	}

	if err != nil {
		u.pending = nil
		u.ErrMessage = "Image upload failed. Please try again."
		return "", err
	}

	u.confirmed = result.URL
	u.pending = nil
	u.ErrMessage = ""
	return result.URL, nil
}

// Remove clears the pending selection and the bound URL.
func (u *ImageUpload) Remove() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = nil
	u.confirmed = ""
	u.ErrMessage = ""
}

// Displayed reports what the user currently sees: the pending local file,
// the confirmed remote URL, or nothing.
func (u *ImageUpload) Displayed() (ImageKind, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending != nil {
		return ImageLocal, u.pending.name
	}
	if u.confirmed != "" {
		return ImageRemote, u.confirmed
	}
	return ImageNone, ""
}

// URL returns the confirmed remote URL to bind on the listing, "" if none.
func (u *ImageUpload) URL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.confirmed
}

func (u *ImageUpload) reject(err *ValidationError) error {
	u.mu.Lock()
	u.ErrMessage = err.Message
	u.mu.Unlock()
	return err
}
