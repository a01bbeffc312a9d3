// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build statsview

package statsview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Start serves runtime statistics at Address until ctx is done. Serving
// errors are logged.
func Start(ctx context.Context, logger *slog.Logger) error {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go func() {
		err := mgr.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("statsview server failed", "err", err)
		}
	}()
	context.AfterFunc(ctx, mgr.Stop)

	logger.Info("statsview serving", "url", URL())
	return nil
}
