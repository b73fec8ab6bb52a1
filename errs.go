// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

// FileError records a file that could not be opened or read. The file
// contributed nothing to the total.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return "count " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// DirError records a directory that could not be listed, or could only be
// listed in part. Entries that were listed are still counted.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return "list " + e.Path + ": " + e.Err.Error()
}

func (e *DirError) Unwrap() error {
	return e.Err
}
