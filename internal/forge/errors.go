package forge

import "errors"

var (
	ErrBuild   = errors.New("build failed")
	ErrPush    = errors.New("push failed")
	ErrPublish = errors.New("manifest publish failed")
	ErrLayout  = errors.New("layout creation failed")
)
