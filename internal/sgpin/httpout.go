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

package sgpin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sgready/internal/config"
	"sgready/internal/sgready"
	"sgready/pkg/logger"
)

// httpDriver posts digital-out requests to a relay server, for setups
// where the control line is on a remote IO hub rather than local pins.
type httpDriver struct {
	addr    string
	channel int
	hubPort int
	log     *logger.Logger
}

type digitalOutRequest struct {
	Name        string `json:"name"`
	TargetState bool   `json:"target_state"`
	Channel     int    `json:"channel"`
	HubPort     int    `json:"hub_port"`
}

func newHTTPDriver(conf config.OutputConfig) Driver {
	return &httpDriver{
		addr:    conf.HTTPAddr,
		channel: conf.HTTPChannel,
		hubPort: conf.HTTPHubPort,
		log:     logger.New("HTTPOut"),
	}
}

func (d *httpDriver) Set(mode sgready.Mode) error {
	d.log.Info("posting digital out for mode %s", mode)
	return postJSON(fmt.Sprintf("%s/digital_out", d.addr), digitalOutRequest{
		Name:        "sg_ready_lsb",
		TargetState: mode == sgready.ModeExcess,
		Channel:     d.channel,
		HubPort:     d.hubPort,
	})
}

func (d *httpDriver) Close() error {
	return nil
}

func postJSON(url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("HTTP POST failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
