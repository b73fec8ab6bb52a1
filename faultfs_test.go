// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount_test

import (
	"io/fs"
	"testing/fstest"
)

// faultFS wraps a MapFS and injects failures and hooks by path.
type faultFS struct {
	fstest.MapFS

	openErr    map[string]error // Open fails
	readErr    map[string]error // Open succeeds, Read fails
	readDirErr map[string]error // ReadDir fails

	onReadDir func(name string)
	gate      <-chan struct{} // if set, file opens block until it is closed
}

func (f *faultFS) Open(name string) (fs.File, error) {
	if f.gate != nil {
		<-f.gate
	}
	if err, ok := f.openErr[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	file, err := f.MapFS.Open(name)
	if err != nil {
		return nil, err
	}
	if err, ok := f.readErr[name]; ok {
		return failingFile{File: file, err: err}, nil
	}
	return file, nil
}

func (f *faultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.onReadDir != nil {
		f.onReadDir(name)
	}
	if err, ok := f.readDirErr[name]; ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return f.MapFS.ReadDir(name)
}

type failingFile struct {
	fs.File
	err error
}

func (f failingFile) Read([]byte) (int, error) {
	return 0, f.err
}

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}
