// Package forge orchestrates the build-target matrix.
//
// A target is one (architecture, binary) pair. The matrix is the cross
// product of the resolved architecture and binary selections, walked in
// architecture-major order. Each target is compiled with the external
// compiler and assembled into a container image with the external image
// builder; push runs add a registry push per target, and multi-architecture
// publication aggregates the per-architecture tags into one manifest tag
// per binary.
//
// The walk is strictly sequential and fail-fast: the first non-zero exit
// from any external command aborts the run where it stands, leaving earlier
// artifacts in place. All external commands go through the shell runner, so
// the whole orchestration is testable against a scripted recorder.
package forge
