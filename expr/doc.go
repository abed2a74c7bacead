// Copyright (C) 2023 Levycas, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package expr implements a symbolic expression tree
// with automatic simplification.
//
// Every arithmetic constructor (Add, Mul, Pow, ...)
// returns the canonical simplified form of the node it
// denotes, so expressions built through this package
// are always simplified and two mathematically equal
// expressions are structurally identical. Arithmetic
// on constants is exact: integers and rationals are
// arbitrary precision and no operation ever rounds.
//
// Indeterminate results (division by zero, 0^0, ...)
// are represented by the Undefined value, which
// propagates through every operator. Resource
// exhaustion is reported separately, as ErrTooComplex.
package expr
