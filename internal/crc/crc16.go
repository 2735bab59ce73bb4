// Package crc implements the 16-bit CRC used to protect DWG object
// records and section directories. Table-driven, in the style of the
// teacher's bzip2.crc (table-driven CRC-32 variant) in
// github.com/dsnet/compress/bzip2/common.go.
package crc

// table is the reflected CRC-16 table with polynomial 0xA001 (the
// reversed form of 0x8005), initial value 0xC0C1. This matches the
// checksum AutoCAD container sections and object records use.
var table [256]uint16

func init() {
	const poly = 0xA001
	for i := 0; i < 256; i++ {
		c := uint16(i)
		for b := 0; b < 8; b++ {
			if c&1 != 0 {
				c = (c >> 1) ^ poly
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
}

// Seed is the initial CRC register value DWG records start from.
const Seed uint16 = 0xC0C1

// Update folds p into the running CRC value crc, returning the new value.
func Update(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = table[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}

// Checksum computes the CRC of p starting from Seed.
func Checksum(p []byte) uint16 {
	return Update(Seed, p)
}
