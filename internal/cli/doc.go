// Parses flags and dispatches the build, push, and release commands.
//
// The tool accepts the following subcommands:
//
//	build            Build and locally tag container images.
//	push             Build and push per-architecture images.
//	push-multiarch   Push all architectures and publish manifest tags.
//	release          Perform the versioned release workflow.
//	version          Show version information.
//
// Selector flags (-b/--binary, -a/--arch) are repeatable and accept known
// names or "all". Rarely-changed defaults (project, tag, docker user) can be
// kept in an optional config file discovered under the XDG config directory;
// explicit flags always win over file values.
package cli
