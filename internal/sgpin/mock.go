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
	"sgready/internal/sgready"
	"sgready/pkg/logger"
)

// mockDriver only logs. Lets the controller run on a desktop machine
// with no hardware attached.
type mockDriver struct {
	log *logger.Logger
}

func newMockDriver() Driver {
	return &mockDriver{log: logger.New("MockOut")}
}

func (d *mockDriver) Set(mode sgready.Mode) error {
	d.log.Info("mode %s (no hardware)", mode)
	return nil
}

func (d *mockDriver) Close() error {
	return nil
}
