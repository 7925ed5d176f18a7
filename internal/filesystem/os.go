package filesystem

import (
	"io/fs"
	"os"
)

// FileSystem exposes the process-level filesystem operations used while publishing.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Getwd() (string, error)
	Chdir(path string) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Getwd returns the current working directory of the process.
func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir changes the working directory of the process.
func (OSFileSystem) Chdir(path string) error {
	return os.Chdir(path)
}
