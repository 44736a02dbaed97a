//go:build ptex

package texture

// PtexSupported reports whether ptex textures can be created.
const PtexSupported = true
