//go:build !windows

package nvar

const libraryName = "libnvARPose.so"

var libraryCandidates = []string{
	"lib/" + libraryName,
	libraryName,
}

func defaultSDKPath() string {
	return "/usr/local/ARSDK"
}
