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

// Package sgpin asserts the SG Ready mode on the physical control line.
// Only the low bit of the two-digit SG Ready value is ever driven; the
// high bit stays untouched.
package sgpin

import (
	"context"
	"fmt"
	"path/filepath"

	"sgready/internal/config"
	"sgready/internal/sgready"
	"sgready/pkg/modbus"
)

// Driver writes the committed mode to the pump input.
type Driver interface {
	Set(mode sgready.Mode) error
	Close() error
}

// New selects a backend from config. The modbus backend loads its
// register map from var/config/sgready.modbus.yml under rootdir.
func New(ctx context.Context, conf *config.Config, rootdir string) (Driver, error) {
	switch conf.Output.Backend {
	case "gpio":
		return newGPIODriver(conf.Output.GPIOPin)

	case "modbus":
		mbConf := modbus.LoadConfig(filepath.Join(rootdir, "var/config/sgready.modbus.yml"))
		return newModbusDriver(ctx, mbConf, conf.Output.ModbusRegister), nil

	case "http":
		return newHTTPDriver(conf.Output), nil

	case "mock":
		return newMockDriver(), nil

	default:
		return nil, fmt.Errorf("unknown output backend %q", conf.Output.Backend)
	}
}
