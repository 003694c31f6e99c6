// Package persistence encodes lattice snapshots and moves them through blob stores.
//
// # Format
//
//	magic "ALSN" | version u8 | compression u8 | codec-name len u8 | codec name |
//	blocks... | CRC32C u32
//
// The codec payload is split into blocks of at most BlockSize bytes. Each
// block is framed as [uncompressed size u32][compressed size u32][data]; a
// compressed size of 0 marks a block stored as-is because compression did not
// pay off. The trailing CRC32C covers every preceding byte. Integers are
// little-endian.
//
// Snapshots are self-describing: Decode selects the codec and compression
// recorded in the header, so readers need no configuration.
package persistence
