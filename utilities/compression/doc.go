// Package compression implements the scanline compression schemes understood
// by the supported label and card printers.
//
// Three encodings are provided, each with a matching decoder:
//
//   - The card printer run-length scheme (EPCL). A control byte with the high
//     bit set is a repeat token: the low seven bits hold the run length minus
//     one, and the next byte is the repeated value. A control byte without the
//     high bit is a literal token holding the number of raw bytes that follow,
//     at most 31. For example:
//
//     00 00 00 00 FF FF 00 00
//     83 00 81 FF 81 00
//
//     Note the asymmetry: repeat lengths are stored minus one, literal lengths
//     are stored as-is. Printers depend on this.
//
//   - PackBits, as used by PCL raster compression mode 2 and TIFF. A header n
//     in [0, 127] is followed by n+1 literal bytes; a header n in [129, 255]
//     is followed by one byte repeated 257-n times. 128 is a no-op.
//
//   - ZPL II hex run-length compression. Each byte is written as two uppercase
//     hex digits, and runs of the same digit are prefixed with a count from the
//     alphabet G-Y (1-19) and g-z (20-400 in steps of 20). A comma fills the
//     rest of the row with zeros and a colon repeats the previous row.
//
// None of the encoders allocate more than 2n+1 bytes of output for n bytes of
// input; see [MaxRunLengthSize].

package compression
