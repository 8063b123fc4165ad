package utils

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey builds a collision-free blob key such as "logos/<uuid>.png".
// ext may be given with or without the leading dot.
func ObjectKey(dir, ext string) string {
	name := uuid.New().String()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return path.Join(dir, name)
}
