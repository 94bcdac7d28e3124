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
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"sgready/internal/sgready"
	"sgready/pkg/logger"
)

// gpioDriver drives the SG Ready low bit on a GPIO pin. Pins are
// addressed by their BCM numbers.
type gpioDriver struct {
	pin gpio.PinIO
	log *logger.Logger
}

func newGPIODriver(pin int) (Driver, error) {
	// host.Init is safe to call more than once
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio host init: %w", err)
	}

	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no such pin %s", name)
	}

	return &gpioDriver{
		pin: p,
		log: logger.New("GPIOOut"),
	}, nil
}

func (d *gpioDriver) Set(mode sgready.Mode) error {
	level := gpio.Low
	if mode == sgready.ModeExcess {
		level = gpio.High
	}
	d.log.Info("setting pin %s for mode %s", d.pin.Name(), mode)
	return d.pin.Out(level)
}

func (d *gpioDriver) Close() error {
	// leave the line in the safe state on shutdown
	return d.pin.Out(gpio.Low)
}
