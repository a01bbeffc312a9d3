// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statsview serves runtime charts of the emulator process (heap,
// goroutines, GC) over HTTP while a machine runs. The server is built only
// with the statsview build tag; otherwise Start returns ErrUnavailable.
package statsview

import "errors"

// Address the statistics server listens on.
const Address = "localhost:12600"

// ErrUnavailable is returned by Start when the server was not built in.
var ErrUnavailable = errors.New("statsview not built in; rebuild with -tags statsview")

// URL returns the address of the statistics page.
func URL() string {
	return "http://" + Address + "/debug/statsview"
}
