package api

import (
	"errors"
	"os"
)

// MaxImageBytes mirrors the upload limit the API enforces.
const MaxImageBytes = 2 << 20

var ErrImageTooLarge = errors.New("image is larger than 2 MB")

// ReadImage loads an image file for UpdateUserRequest.Image, refusing files
// over MaxImageBytes before reading them.
func ReadImage(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.Size() > MaxImageBytes {
		return nil, &os.PathError{Op: "read", Path: path, Err: ErrImageTooLarge}
	}
	return os.ReadFile(path)
}
