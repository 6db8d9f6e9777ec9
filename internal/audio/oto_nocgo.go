//go:build !cgo

package audio

import "errors"

func newOtoOutput() (Output, error) {
	return nil, errors.New("oto output needs a cgo build")
}
