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
	"context"

	"sgready/internal/sgready"
	"sgready/pkg/logger"
	"sgready/pkg/modbus"
)

// modbusDriver writes the SG Ready low bit to a coil or holding register
// on pumps that expose the contact inputs over Modbus TCP.
type modbusDriver struct {
	client   *modbus.Client
	register string
	ctx      context.Context
	log      *logger.Logger
}

func newModbusDriver(ctx context.Context, conf *modbus.Config, register string) Driver {
	return &modbusDriver{
		client:   modbus.NewClient(ctx, conf),
		register: register,
		ctx:      ctx,
		log:      logger.New("ModbusOut"),
	}
}

func (d *modbusDriver) Set(mode sgready.Mode) error {
	d.log.Info("writing register %q for mode %s", d.register, mode)
	return d.client.WriteBool(d.ctx, d.register, mode == sgready.ModeExcess)
}

func (d *modbusDriver) Close() error {
	d.client.Close()
	return nil
}
