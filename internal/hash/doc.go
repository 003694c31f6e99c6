// Package hash provides the CRC32-Castagnoli (CRC32C) checksums used for
// data integrity.
//
// Snapshots carry a little-endian CRC32C trailer over every preceding byte:
//
//	h := hash.NewCRC32C()
//	w := io.MultiWriter(out, h)
//	// ... write the snapshot through w ...
//	out.Write(hash.AppendTrailer(nil, h.Sum32()))
//
//	body, sum, ok := hash.SplitTrailer(blob)
//	if !ok || hash.CRC32C(body) != sum {
//		// corrupt
//	}
//
// S3 uploads send the same checksum base64 encoded in big-endian byte
// order, see Base64CRC32C.
package hash
