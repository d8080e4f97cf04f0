package x11

import "errors"

type xcbConnection struct {
	conn uintptr
}

func openXCB(display string) (*xcbConnection, error) {
	return nil, errors.New("libxcb is not available on windows")
}

func (x *xcbConnection) close() {}
