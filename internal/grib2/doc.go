// Package grib2 reads the header sections of WMO GRIB edition 2 files.
//
// # Scope
//
// Only the metadata a catalog needs is decoded. Data sections (6 and 7) are
// skipped by length and never unpacked, so reading a multi-gigabyte file costs
// one sequential pass with a few hundred bytes of allocation per field.
//
// # Message Layout
//
// A GRIB2 message is a sequence of numbered sections:
//
//	0  indicator        "GRIB", discipline, edition, total length (16 octets)
//	1  identification   originating centre, reference time, production status
//	2  local use        optional, skipped
//	3  grid definition  template 3.x (lat/lon, Mercator, polar stereo, Lambert)
//	4  product          template 4.x (parameter, forecast time, fixed surface)
//	5  representation   template 5.x (packing, bits per value)
//	6  bitmap           skipped
//	7  data             skipped
//	8  end              "7777"
//
// Sections 2-7 may repeat inside one message. Every section 7 closes one field,
// and [Read] emits one [Message] per field with the most recent sections 1-5
// in effect, matching how wgrib2 numbers records 1.1, 1.2, ...
//
// # Encoding Conventions
//
// Octet numbers in the WMO manual are 1-based; the decoders index section
// buffers at octet-1. Signed integers use sign-magnitude (high bit set means
// negative), not two's complement. Latitudes and longitudes are stored in
// micro-degrees unless the basic angle / subdivisions pair says otherwise.
//
// # Tables
//
// Parameter, fixed-surface, discipline and centre names come from static
// tables in this package (NCEP GRIB2 tables, subset used by GEFS products).
// Unknown codes fall back to "VAR<d>-<c>-<n>" style names rather than failing.
package grib2
