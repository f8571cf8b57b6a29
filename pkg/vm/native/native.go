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
package native

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/consensys/go-cupid/pkg/vm"
)

// Standard returns the standard set of host functions, writing any output to
// the given writer.
func Standard(w io.Writer) map[string]vm.Native {
	return map[string]vm.Native{
		"print":   Print(w),
		"println": Println(w),
		"printac": PrintAccumulator(w),
		"popac":   vm.NativeFunc(PopAccumulator),
		"dup":     vm.NativeFunc(Dup),
		"drop":    vm.NativeFunc(Drop),
	}
}

// Select returns those standard natives with the given names, or an error if
// any name is unknown.  An empty selection returns all standard natives.
func Select(w io.Writer, names ...string) (map[string]vm.Native, error) {
	var (
		all      = Standard(w)
		selected = make(map[string]vm.Native)
	)
	//
	if len(names) == 0 {
		return all, nil
	}
	//
	for _, name := range names {
		fn, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("unknown native \"%s\" (available: %v)", name, Names(all))
		}
		//
		selected[name] = fn
	}
	//
	return selected, nil
}

// Names returns the names in a native table in sorted order.
func Names(natives map[string]vm.Native) []string {
	var names = make([]string, 0, len(natives))
	//
	for name := range natives {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

// Print pops the topmost value and writes it, up to (but excluding) its first
// NUL byte.
func Print(w io.Writer) vm.Native {
	return vm.NativeFunc(func(host vm.Host) error {
		value, err := host.Pop()
		if err != nil {
			return err
		}
		//
		_, err = w.Write(trim(value))
		//
		return err
	})
}

// Println behaves as Print, followed by a newline.
func Println(w io.Writer) vm.Native {
	return vm.NativeFunc(func(host vm.Host) error {
		value, err := host.Pop()
		if err != nil {
			return err
		}
		//
		_, err = fmt.Fprintf(w, "%s\n", trim(value))
		//
		return err
	})
}

// PrintAccumulator writes the accumulator in decimal, followed by a newline.
func PrintAccumulator(w io.Writer) vm.Native {
	return vm.NativeFunc(func(host vm.Host) error {
		_, err := fmt.Fprintf(w, "%d\n", host.Accumulator())
		return err
	})
}

// PopAccumulator pops the topmost value into the accumulator.
func PopAccumulator(host vm.Host) error {
	value, err := host.PopUint32()
	if err != nil {
		return err
	}
	//
	host.SetAccumulator(value)
	//
	return nil
}

// Dup duplicates the topmost value.
func Dup(host vm.Host) error {
	value, err := host.Pop()
	if err != nil {
		return err
	}
	//
	host.Push(value)
	host.Push(value)
	//
	return nil
}

// Drop discards the topmost value.
func Drop(host vm.Host) error {
	_, err := host.Pop()
	return err
}

func trim(value []byte) []byte {
	if i := bytes.IndexByte(value, 0); i >= 0 {
		return value[:i]
	}
	//
	return value
}
