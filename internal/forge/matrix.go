package forge

// One cell of the build matrix.
type Target struct {
	Architecture string
	Binary       string
}

// Returns a label for the target, used in logs and error wrapping.
func (t Target) String() string {
	return t.Architecture + "/" + t.Binary
}

// Returns the cross product of architectures and binaries in
// architecture-major order.
//
// Both inputs come out of selector resolution already sorted, so the matrix
// order is deterministic for any spelling of the selection.
func crossProduct(architectures, binaries []string) []Target {
	targets := make([]Target, 0, len(architectures)*len(binaries))
	for _, arch := range architectures {
		for _, binary := range binaries {
			targets = append(targets, Target{Architecture: arch, Binary: binary})
		}
	}
	return targets
}
