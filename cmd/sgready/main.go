// Copyright (C) 2025 Bud Millwood
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"log"
	"os"
	"path/filepath"

	"sgready/internal/config"
	"sgready/internal/mqttlink"
	"sgready/internal/sgpin"
	"sgready/internal/sgready"
	"sgready/internal/statusweb"
	"sgready/pkg/appctx"
	"sgready/pkg/eventbus"
	"sgready/pkg/logger"
	"sgready/pkg/rootserv"
	"sgready/pkg/service"
	"sgready/pkg/sysmon"
)

func main() {

	rootdir := os.Getenv("PROJECT_ROOT")
	if rootdir == "" {
		rootdir = "."
	}

	logger.Init(filepath.Join(rootdir, "var/logs/sgready.log"))
	defer logger.Close()

	conf := config.LoadFile(filepath.Join(rootdir, "var/config/sgready.json"))
	conf.EventBus = eventbus.New()

	ctx, ctxCancel := appctx.New()

	driver, err := sgpin.New(ctx, conf, rootdir)
	if err != nil {
		log.Fatalf("output driver: %v", err)
	}
	defer driver.Close()

	// init services
	link := mqttlink.New(conf)
	controllerService := sgready.NewService(conf, sgready.Outputs{
		SetOutput:     driver.Set,
		PublishMode:   link.PublishMode,
		PublishExcess: link.PublishExcess,
	})
	link.Bind(controllerService)

	statusService := statusweb.New(conf.EventBus)
	server := rootserv.New(conf.Web.Addr)

	// attach web handler enabled services
	server.Attach("/", "SG Ready Status", statusService)
	server.Attach("/logger", "Logger", logger.WebService())
	server.Attach("/monitor", "System Monitor", sysmon.New())

	// start runnable services
	exitCh := service.Start(ctx, ctxCancel, []service.Runnable{
		controllerService,
		link,
		statusService,
		server,
	})

	// waits for all services to stop
	os.Exit(<-exitCh)
}
