package server

import (
	"encoding/base64"
	"errors"
	"strings"

	"gocv.io/x/gocv"
)

var errEmptyFrame = errors.New("decoded frame is empty")

// decodeFrame decodes a base64-encoded JPEG frame from a client into a Mat.
// Browser clients send canvas captures as data URLs, so an optional
// "data:image/jpeg;base64," prefix is stripped first. The caller must close
// the returned Mat.
func decodeFrame(data string) (*gocv.Mat, error) {
	if idx := strings.IndexByte(data, ','); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	if mat.Empty() {
		mat.Close()
		return nil, errEmptyFrame
	}

	return &mat, nil
}
