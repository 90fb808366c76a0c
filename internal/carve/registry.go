// Copyright (c) 2025 The gforemost authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package carve

import "fmt"

// DefaultCarvers returns the full supported carver set in registration
// order. The set is fixed; new formats are added here.
func DefaultCarvers() []Carver {
	return []Carver{
		NewJPEG(),
		NewPNG(),
		NewGIF(),
		NewPDF(),
	}
}

// Carvers returns the default carvers restricted to the given extensions.
// With no extensions, the full set is returned. An unknown extension is an
// error.
func Carvers(exts ...string) ([]Carver, error) {
	all := DefaultCarvers()
	if len(exts) == 0 {
		return all, nil
	}

	byExt := make(map[string]Carver, len(all))
	for _, c := range all {
		byExt[c.Ext()] = c
	}

	carvers := make([]Carver, 0, len(exts))
	for _, ext := range exts {
		c, ok := byExt[ext]
		if !ok {
			return nil, fmt.Errorf("unsupported file extension %q", ext)
		}
		carvers = append(carvers, c)
	}
	return carvers, nil
}
