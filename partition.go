// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import "github.com/dchest/siphash"

// partitionKey0 and partitionKey1 are the fixed siphash keys used to
// assign a token's key bytes to a partition. They are process
// constants, not secrets: the only requirement (spec §4.2) is that the
// same hash is used for every line within a single run, so that equal
// keys always land in the same partition.
const (
	partitionKey0 = 0x9ae16a3b2f90404f
	partitionKey1 = 0xc949d7c7509e6557
)

// PartitionOf returns the partition index in [0, p) that key belongs
// to. Equal keys always map to the same partition; that is its only
// correctness obligation. p need not be a power of two.
func PartitionOf(key []byte, p uint32) uint32 {
	h := siphash.Hash(partitionKey0, partitionKey1, key)
	return uint32(h % uint64(p))
}
