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

package expr

import (
	"github.com/dchest/siphash"
)

// fixed keys; Hash values are stable for the life of a
// process but are not a serialization format
const (
	hashKey0 = 0x5f3759df9e3779b9
	hashKey1 = 0x2545f4914f6cdd1d
)

// Hash returns a 64-bit fingerprint of the canonical
// text of n. For simplified nodes, equal expressions
// hash identically, so Hash can key deduplication maps
// without retaining the nodes themselves.
func Hash(n Node) uint64 {
	return siphash.Hash(hashKey0, hashKey1, []byte(ToString(n)))
}
