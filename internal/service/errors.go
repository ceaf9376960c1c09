package service

import (
	"fmt"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id string) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

type ErrInvalidUpload struct {
	error
}

func NewErrInvalidUpload(message string) *ErrInvalidUpload {
	return &ErrInvalidUpload{fmt.Errorf("bad request: %s", message)}
}

func NewErrMissingUploadFile() *ErrInvalidUpload {
	return NewErrInvalidUpload(`multipart field "file" is missing`)
}

func NewErrMissingFilename() *ErrInvalidUpload {
	return NewErrInvalidUpload("upload filename is missing")
}
