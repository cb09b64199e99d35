// Package gefs maps NOAA Global Ensemble Forecast System (GEFS) GRIB2 files
// to STAC Collection and Item documents.
//
// # Data Source
//
// GEFS output is published by NCEP on NOMADS and mirrored to the NOAA Open
// Data Dissemination buckets. Files are organised per cycle:
//
//	gefs.YYYYMMDD/HH/atmos/pgrb2ap5/gep01.t00z.pgrb2a.0p50.f006
//	gefs.YYYYMMDD/HH/chem/pgrb2ap25/gefs.chem.t00z.a2d_0p25.f000.grib2
//	gefs.YYYYMMDD/HH/wave/gridded/gefs.wave.t00z.p01.global.0p25.f000.grib2
//
// Every GRIB2 file normally has a wgrib2 inventory next to it with ".idx"
// appended to the full file name.
//
// # Naming Conventions
//
// Atmospheric files:
//
//	ge<member>.t<HH>z.<product>.<resolution>.f<FFF>
//	member:     c00 (control), p01-p30 (perturbed), avg (ensemble mean),
//	            spr (ensemble spread)
//	product:    pgrb2a, pgrb2b, pgrb2s
//	resolution: 0p25, 0p50
//
// Aerosol files (GEFS-Aerosols, a single unperturbed member):
//
//	gefs.chem.t<HH>z.<product>_<resolution>.f<FFF>[.grib2]
//	product:    a2d (2-D fields), a3d (3-D fields)
//
// Wave files:
//
//	gefs.wave.t<HH>z.<member>.<domain>.<resolution>.f<FFF>.grib2
//	member:     c00, p01-p30, mean, spread
//
// The filename cycle and lead time are informational. The reference time and
// forecast horizon always come from the GRIB2 header; a mismatch is logged.
//
// # Item Identity
//
// Item IDs are the source file name without its GRIB extension plus the
// reference time, e.g. "gefs.chem.t00z.a2d_0p25.f000-20220816T0000Z". The
// same file always produces the same ID, so re-running over a cycle
// overwrites rather than duplicates. See [ItemID].
//
// # Time
//
// GRIB2 reference times carry no zone and are read as UTC. The processing
// timestamp is the only value not derived from the input; it is passed in
// explicitly or sampled from the package clock (see [SetClock]).
package gefs
