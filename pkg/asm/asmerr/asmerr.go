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
package asmerr

import "errors"

// ErrDuplicateDataSection signals a second %data ... %enddata block.
var ErrDuplicateDataSection = errors.New("duplicate data section")

// ErrDuplicateLabel signals two definitions sharing the same name.  This covers
// code labels, data entries and %define constants alike.
var ErrDuplicateLabel = errors.New("duplicate label")

// ErrUndefinedLabel signals a reference to a name which was never defined.
var ErrUndefinedLabel = errors.New("undefined label")

// ErrCyclicInclude signals a file which (transitively) includes itself.
var ErrCyclicInclude = errors.New("cyclic include")

// ErrMalformedDirective signals any other malformed input, such as an unknown
// directive, an out-of-range literal or an unknown instruction.
var ErrMalformedDirective = errors.New("malformed directive")
