// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package vm

import (
	log "github.com/sirupsen/logrus"
)

// Option configures a machine when it is constructed.
type Option struct {
	apply func(m *Machine)
}

// WithNatives registers the given native functions with the machine, replacing
// any existing functions of the same name.
func WithNatives(natives map[string]Native) Option {
	return Option{
		apply: func(m *Machine) {
			for name, fn := range natives {
				m.natives[name] = fn
			}
		},
	}
}

// WithNative registers a single native function with the machine.
func WithNative(name string, native Native) Option {
	return Option{
		apply: func(m *Machine) { m.natives[name] = native },
	}
}

// BeforeStep adds a callback to be invoked just before each instruction is
// executed.
func BeforeStep(h ...func(*Machine)) Option {
	return Option{
		apply: func(m *Machine) { m.beforeStep = append(m.beforeStep, h...) },
	}
}

// AfterStep adds a callback to be invoked after each instruction is executed
// successfully.
func AfterStep(h ...func(*Machine)) Option {
	return Option{
		apply: func(m *Machine) { m.afterStep = append(m.afterStep, h...) },
	}
}

// WithLogger sets the logger used for reporting execution.  Each executed
// instruction is logged at trace level.
func WithLogger(logger *log.Entry) Option {
	return Option{
		apply: func(m *Machine) { m.logger = logger },
	}
}
