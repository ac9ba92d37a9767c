// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import (
	"encoding/binary"
	"fmt"
)

// Record tracks how many times a key has been seen and the smallest
// line number (index) at which it was seen.
type Record struct {
	Count uint64
	Index uint64
}

// NewRecord returns the Record for a key's first occurrence at the
// given line index.
func NewRecord(index uint64) Record {
	return Record{Count: 1, Index: index}
}

// Merge combines two Records for the same key. The result's count is
// the sum of both counts and its index is the smaller of the two
// indices. Merge is commutative and associative.
func (a Record) Merge(b Record) Record {
	index := a.Index
	if b.Index < index {
		index = b.Index
	}
	return Record{Count: a.Count + b.Count, Index: index}
}

// Entry pairs a key with its Record. Equal and Less compare Entries by
// key alone: two Entries are equal when their keys are, and entries are
// ordered lexicographically by key bytes. The == operator compares the
// Record as well.
type Entry struct {
	Key    string
	Record Record
}

// Equal reports whether e and o have the same key; their Records are
// not compared.
func (e Entry) Equal(o Entry) bool {
	return e.Key == o.Key
}

// Less reports whether e's key sorts before o's key in byte order.
func (e Entry) Less(o Entry) bool {
	return e.Key < o.Key
}

// NewEntry returns the Entry for a key's first occurrence at the given
// line index.
func NewEntry(key string, index uint64) Entry {
	return Entry{Key: key, Record: NewRecord(index)}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: count %d, index %d", e.Key, e.Record.Count, e.Record.Index)
}

// blockHeaderSize is the combined width, in bytes, of the key_length,
// count and index fields of an encoded Block (see spec §6).
const blockHeaderSize = 8 + 8 + 8

// EncodedLen returns the number of bytes EncodeBlock will write for e.
func (e Entry) EncodedLen() int {
	return blockHeaderSize + len(e.Key)
}

// EncodeBlock appends the big-endian Block encoding of e to dst and
// returns the extended slice. The wire layout is:
//
//	key_length (8 bytes) | key (key_length bytes) | count (8 bytes) | index (8 bytes)
func EncodeBlock(dst []byte, e Entry) []byte {
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(len(e.Key)))
	dst = append(dst, hdr[:]...)
	dst = append(dst, e.Key...)
	binary.BigEndian.PutUint64(hdr[:], e.Record.Count)
	dst = append(dst, hdr[:]...)
	binary.BigEndian.PutUint64(hdr[:], e.Record.Index)
	dst = append(dst, hdr[:]...)
	return dst
}

// ErrTruncatedBlock is returned by ParseEntries when the buffer ends
// in the middle of a Block.
var ErrTruncatedBlock = fmt.Errorf("firstunique: truncated block")

// ParseEntries consumes buf left to right, decoding one Entry per
// Block until buf is exhausted. Each Entry's key is allocated as an
// owned copy; no Entry retains a reference into buf. A buffer that
// ends mid-Block is a format error.
func ParseEntries(buf []byte) ([]Entry, error) {
	var entries []Entry
	for len(buf) > 0 {
		if len(buf) < 8 {
			return nil, ErrTruncatedBlock
		}
		keyLen := binary.BigEndian.Uint64(buf[:8])
		buf = buf[8:]
		if uint64(len(buf)) < keyLen+16 {
			return nil, ErrTruncatedBlock
		}
		key := string(buf[:keyLen])
		buf = buf[keyLen:]
		count := binary.BigEndian.Uint64(buf[:8])
		buf = buf[8:]
		index := binary.BigEndian.Uint64(buf[:8])
		buf = buf[8:]
		entries = append(entries, Entry{Key: key, Record: Record{Count: count, Index: index}})
	}
	return entries, nil
}
