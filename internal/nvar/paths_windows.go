package nvar

import (
	"os"
	"path/filepath"
)

const libraryName = "nvARPose.dll"

var libraryCandidates = []string{libraryName}

func defaultSDKPath() string {
	root := os.Getenv("ProgramFiles")
	if root == "" {
		root = `C:\Program Files`
	}
	return filepath.Join(root, "NVIDIA Corporation", "NVIDIA AR SDK")
}
