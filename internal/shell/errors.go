package shell

import "errors"

var ErrCommandFailed = errors.New("command failed")
