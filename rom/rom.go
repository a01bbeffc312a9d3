// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rom loads and validates the BASIC, KERNAL and character
// generator images of the C64.
package rom

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Kind identifies one of the three system ROMs.
type Kind byte

const (
	Basic Kind = iota
	Kernal
	Char
)

// Image sizes in bytes.
const (
	BasicSize  = 8 * 1024
	KernalSize = 8 * 1024
	CharSize   = 4 * 1024
)

// File names used by VICE for the system ROMs.
var defaultNames = [...]string{"basic", "kernal", "chargen"}

func (k Kind) String() string {
	switch k {
	case Basic:
		return "BASIC"
	case Kernal:
		return "KERNAL"
	case Char:
		return "CHAR"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Size returns the exact size an image of this kind must have.
func (k Kind) Size() int {
	if k == Char {
		return CharSize
	}
	return 8 * 1024
}

// Errors
var (
	ErrMissingImage = errors.New("ROM image missing")
	ErrImageSize    = errors.New("ROM image has the wrong size")
)

// An ImageError reports a ROM image that could not be used.
type ImageError struct {
	Kind Kind
	Path string
	Size int   // size found, for ErrImageSize
	Err  error // ErrMissingImage, ErrImageSize or an I/O error
}

func (e *ImageError) Error() string {
	switch {
	case errors.Is(e.Err, ErrImageSize):
		return fmt.Sprintf("%s ROM %q: %d bytes, expected %d", e.Kind, e.Path, e.Size, e.Kind.Size())
	case e.Path == "":
		return fmt.Sprintf("%s ROM: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s ROM %q: %v", e.Kind, e.Path, e.Err)
	}
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// A Set holds the three system ROM images. A nil image is absent.
type Set struct {
	Basic  []byte
	Kernal []byte
	Char   []byte
}

// Image returns the image of the requested kind.
func (s *Set) Image(k Kind) []byte {
	switch k {
	case Basic:
		return s.Basic
	case Kernal:
		return s.Kernal
	default:
		return s.Char
	}
}

// Validate checks that every image is present and has the right size.
// All problems are reported together.
func (s *Set) Validate() error {
	var errs []error
	for _, k := range []Kind{Basic, Kernal, Char} {
		if err := check(k, "", s.Image(k)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func check(k Kind, path string, b []byte) error {
	switch {
	case b == nil:
		return &ImageError{Kind: k, Path: path, Err: ErrMissingImage}
	case len(b) != k.Size():
		return &ImageError{Kind: k, Path: path, Size: len(b), Err: ErrImageSize}
	}
	return nil
}

// Paths names the files to load each image from.
type Paths struct {
	Basic  string
	Kernal string
	Char   string
}

// DefaultPaths returns the VICE file names of the three ROMs inside dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Basic:  filepath.Join(dir, defaultNames[Basic]),
		Kernal: filepath.Join(dir, defaultNames[Kernal]),
		Char:   filepath.Join(dir, defaultNames[Char]),
	}
}

// DefaultDir returns the directory VICE installs the C64 ROMs into.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".vice", "c64")
}

// Load reads a single image and checks its size.
func Load(k Kind, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ImageError{Kind: k, Path: path, Err: ErrMissingImage}
	case err != nil:
		return nil, &ImageError{Kind: k, Path: path, Err: err}
	}
	if err := check(k, path, b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadSet reads all three images. Every failing image is reported.
func LoadSet(p Paths) (*Set, error) {
	var s Set
	var errs []error
	load := func(k Kind, path string, dst *[]byte) {
		b, err := Load(k, path)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = b
	}
	load(Basic, p.Basic, &s.Basic)
	load(Kernal, p.Kernal, &s.Kernal)
	load(Char, p.Char, &s.Char)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &s, nil
}
