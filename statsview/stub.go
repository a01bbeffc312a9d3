// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !statsview

package statsview

import (
	"context"
	"log/slog"
)

// Start reports ErrUnavailable; the server needs the statsview build tag.
func Start(ctx context.Context, logger *slog.Logger) error {
	return ErrUnavailable
}
