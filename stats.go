/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const (
	statsAddress = "localhost:12600"
	statsURL     = "/debug/statsview"
)

// launchStats starts the runtime stats viewer in a new goroutine. It lives
// until the process exits.
func launchStats(logger *log.Logger) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddress))

		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server started", log.String("url", "http://"+statsAddress+statsURL))
}
