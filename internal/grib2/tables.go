package grib2

import (
	"fmt"
	"strconv"
)

// Parameter describes a GRIB2 parameter (discipline, category, number).
type Parameter struct {
	Name        string // short name, e.g. "TMP"
	Description string
	Unit        string
}

type parameterKey struct {
	discipline, category, number uint8
}

// disciplines is code table 0.0.
var disciplines = map[uint8]string{
	0:  "Meteorological",
	1:  "Hydrological",
	2:  "Land Surface",
	3:  "Satellite Remote Sensing",
	4:  "Space Weather",
	10: "Oceanographic",
	20: "Health and Socioeconomic Impacts",
}

// parameters is the subset of code table 4.2 (WMO plus NCEP local entries)
// that appears in GEFS atmos, chem and wave products.
var parameters = map[parameterKey]Parameter{
	{0, 0, 0}:    {"TMP", "Temperature", "K"},
	{0, 0, 4}:    {"TMAX", "Maximum Temperature", "K"},
	{0, 0, 5}:    {"TMIN", "Minimum Temperature", "K"},
	{0, 0, 6}:    {"DPT", "Dewpoint Temperature", "K"},
	{0, 1, 0}:    {"SPFH", "Specific Humidity", "kg/kg"},
	{0, 1, 1}:    {"RH", "Relative Humidity", "%"},
	{0, 1, 3}:    {"PWAT", "Precipitable Water", "kg/m^2"},
	{0, 1, 8}:    {"APCP", "Total Precipitation", "kg/m^2"},
	{0, 1, 11}:   {"SNOD", "Snow Depth", "m"},
	{0, 1, 13}:   {"WEASD", "Water Equivalent of Accumulated Snow Depth", "kg/m^2"},
	{0, 1, 192}:  {"CRAIN", "Categorical Rain", "-"},
	{0, 1, 193}:  {"CFRZR", "Categorical Freezing Rain", "-"},
	{0, 1, 194}:  {"CICEP", "Categorical Ice Pellets", "-"},
	{0, 1, 195}:  {"CSNOW", "Categorical Snow", "-"},
	{0, 2, 2}:    {"UGRD", "U-Component of Wind", "m/s"},
	{0, 2, 3}:    {"VGRD", "V-Component of Wind", "m/s"},
	{0, 2, 8}:    {"VVEL", "Vertical Velocity (Pressure)", "Pa/s"},
	{0, 2, 22}:   {"GUST", "Wind Speed (Gust)", "m/s"},
	{0, 3, 0}:    {"PRES", "Pressure", "Pa"},
	{0, 3, 1}:    {"PRMSL", "Pressure Reduced to MSL", "Pa"},
	{0, 3, 5}:    {"HGT", "Geopotential Height", "gpm"},
	{0, 4, 192}:  {"DSWRF", "Downward Short-Wave Radiation Flux", "W/m^2"},
	{0, 4, 193}:  {"USWRF", "Upward Short-Wave Radiation Flux", "W/m^2"},
	{0, 5, 192}:  {"DLWRF", "Downward Long-Wave Radiation Flux", "W/m^2"},
	{0, 5, 193}:  {"ULWRF", "Upward Long-Wave Radiation Flux", "W/m^2"},
	{0, 6, 1}:    {"TCDC", "Total Cloud Cover", "%"},
	{0, 7, 6}:    {"CAPE", "Convective Available Potential Energy", "J/kg"},
	{0, 7, 7}:    {"CIN", "Convective Inhibition", "J/kg"},
	{0, 14, 192}: {"O3MR", "Ozone Mixing Ratio", "kg/kg"},
	{0, 19, 0}:   {"VIS", "Visibility", "m"},
	{0, 20, 0}:   {"MASSDEN", "Mass Density (Concentration)", "kg/m^3"},
	{0, 20, 1}:   {"COLMD", "Column-Integrated Mass Density", "kg/m^2"},
	{0, 20, 102}: {"AOTK", "Aerosol Optical Thickness", "Numeric"},
	{2, 0, 0}:    {"LAND", "Land Cover (1=land, 0=sea)", "Proportion"},
	{2, 0, 192}:  {"SOILW", "Volumetric Soil Moisture Content", "Fraction"},
	{2, 3, 203}:  {"SOILL", "Liquid Volumetric Soil Moisture (non-frozen)", "Proportion"},
	{10, 0, 3}:   {"HTSGW", "Significant Height of Combined Wind Waves and Swell", "m"},
	{10, 0, 11}:  {"PERPW", "Primary Wave Mean Period", "s"},
	{10, 0, 10}:  {"DIRPW", "Primary Wave Direction", "deg"},
	{10, 2, 0}:   {"ICEC", "Ice Cover", "Proportion"},
}

// surfaces is the subset of code table 4.5 with the abbreviations GDAL uses
// in its GRIB_SHORT_NAME metadata.
var surfaces = map[uint8]struct{ Abbrev, Description string }{
	1:   {"SFC", "Ground or Water Surface"},
	2:   {"CBL", "Cloud Base Level"},
	3:   {"CTL", "Level of Cloud Tops"},
	4:   {"0DEG", "Level of 0 degC Isotherm"},
	7:   {"TRO", "Tropopause"},
	8:   {"NTAT", "Nominal Top of the Atmosphere"},
	10:  {"EATM", "Entire Atmosphere"},
	100: {"ISBL", "Isobaric Surface"},
	101: {"MSL", "Mean Sea Level"},
	102: {"GPML", "Specific Altitude Above Mean Sea Level"},
	103: {"HTGL", "Specified Height Level Above Ground"},
	104: {"SIGL", "Sigma Level"},
	105: {"HYBL", "Hybrid Level"},
	106: {"DBLL", "Depth Below Land Surface"},
	108: {"SPDL", "Level at Specified Pressure Difference from Ground to Level"},
	200: {"EATM", "Entire Atmosphere (considered as a single layer)"},
	220: {"PBLRI", "Planetary Boundary Layer"},
}

// centres is the subset of common code table C-11 used as processing facility.
var centres = map[uint16]string{
	7:  "NCEP",
	8:  "NWSTG",
	9:  "NWS",
	54: "CMC",
	74: "UKMO",
	78: "DWD",
	85: "Meteo-France",
	98: "ECMWF",
}

// DisciplineName returns the name of a product discipline, or "Discipline <n>".
func DisciplineName(d uint8) string {
	if name, ok := disciplines[d]; ok {
		return name
	}
	return "Discipline " + strconv.Itoa(int(d))
}

// LookupParameter returns the parameter for the message. Unknown entries
// get a synthetic "VAR<d>-<c>-<n>" name so catalogs stay complete.
func (m Message) LookupParameter() (Parameter, bool) {
	p, ok := parameters[parameterKey{m.Discipline, m.Product.Category, m.Product.Number}]
	if ok {
		return p, true
	}
	return Parameter{
		Name:        fmt.Sprintf("VAR%d-%d-%d", m.Discipline, m.Product.Category, m.Product.Number),
		Description: "Unknown parameter",
	}, false
}

// LevelShortName formats the first fixed surface the way GDAL does, as
// "<value>-<abbrev>", e.g. "2-HTGL" or "50000-ISBL".
func (m Message) LevelShortName() string {
	s := m.Product.Surface
	if s.Missing {
		return ""
	}
	abbrev := "LVL" + strconv.Itoa(int(s.Type))
	if entry, ok := surfaces[s.Type]; ok {
		abbrev = entry.Abbrev
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + "-" + abbrev
}

// LevelDescription describes the first fixed surface, e.g. "2 Specified
// Height Level Above Ground".
func (m Message) LevelDescription() string {
	s := m.Product.Surface
	if s.Missing {
		return ""
	}
	entry, ok := surfaces[s.Type]
	if !ok {
		return "Level type " + strconv.Itoa(int(s.Type))
	}
	if s.Value == 0 {
		return entry.Description
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + " " + entry.Description
}

// CentreName returns the short name of the originating centre, or "centre <n>".
func CentreName(c uint16) string {
	if name, ok := centres[c]; ok {
		return name
	}
	return "centre " + strconv.Itoa(int(c))
}

// Perturbed reports whether the field belongs to a perturbed ensemble member
// (code table 4.6 values 2 and 3).
func (m Message) Perturbed() bool {
	return m.Product.Ensemble && (m.Product.EnsembleType == 2 || m.Product.EnsembleType == 3)
}
