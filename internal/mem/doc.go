// Package mem provides cache-line aligned heap buffers.
//
// Row stores compare and hash rows one 8-byte word at a time. Starting the
// backing buffer on a 64-byte boundary keeps every row word naturally
// aligned and keeps small rows from straddling cache lines.
package mem
