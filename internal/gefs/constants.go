package gefs

import (
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// Version is written to processing:software.
var Version = "0.3.0"

// SoftwareName is the processing:software key.
const SoftwareName = "noaa-gefs-stac"

// DefaultCollectionID is the collection every item belongs to unless overridden.
const DefaultCollectionID = "noaa-gefs"

// DefaultStartTime is the start of the collection's temporal extent, the
// first cycle of the GEFS archive on the NOAA open data buckets.
var DefaultStartTime = time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	collectionTitle = "NOAA Global Ensemble Forecast System (GEFS)"

	collectionDescription = "The Global Ensemble Forecast System (GEFS) is a weather model created by the " +
		"National Centers for Environmental Prediction (NCEP) that generates 21 separate " +
		"forecasts (ensemble members) to address underlying uncertainties in the input " +
		"data such limited coverage, instruments or observing systems biases, and the " +
		"limitations of the model itself. " +
		"GEFS quantifies these uncertainties by generating multiple forecasts, which in " +
		"turn produce a range of potential outcomes based on differences or perturbations " +
		"applied to the data after it has been incorporated into the model. " +
		"Each forecast compensates for a different set of uncertainties.\n\n" +
		"GEFS runs 4 times per day (00; 06; 12; 18UTC) with 31 members at each lead-time " +
		"at C384L64 (about 25 km horizontal resolution and 64 vertical hybrid levels for " +
		"atmosphere component) and out to 16 days at each cycle, except for 35 days at 0000 UTC."

	license = "proprietary"
)

// Asset keys.
const (
	AssetGRIB2     = "grib2"
	AssetIndex     = "index"
	AssetThumbnail = "thumbnail"
)

// Asset media types.
const (
	MediaTypeGRIB2 = "application/wmo-GRIB2"
	MediaTypeIndex = "text/plain"
	MediaTypePNG   = "image/png"
	MediaTypeJPEG  = "image/jpeg"
)

var keywords = []string{"NOAA", "GEFS", "global", "ensemble", "forecast", "GRIB2"}

func providers() []stac.Provider {
	return []stac.Provider{
		{
			Name:  "NOAA National Centers for Environmental Information",
			Roles: []string{"producer", "licensor"},
			URL:   "https://www.ncei.noaa.gov",
		},
		{
			Name:  "NOAA National Centers for Environmental Prediction",
			Roles: []string{"producer", "processor"},
			URL:   "https://www.ncep.noaa.gov",
		},
	}
}

func licenseLink() stac.Link {
	return stac.Link{
		Href:  "https://www.weather.gov/disclaimer",
		Rel:   stac.RelLicense,
		Type:  stac.MediaTypeHTML,
		Title: "Public Domain",
	}
}

func aboutLink() stac.Link {
	return stac.Link{
		Href:  "https://www.ncei.noaa.gov/products/weather-climate-models/global-ensemble-forecast",
		Rel:   stac.RelAbout,
		Type:  stac.MediaTypeHTML,
		Title: "GEFS Homepage",
	}
}

// grib2Asset is the asset definition for the source file; href is empty for
// item_assets.
func grib2Asset(href string) stac.Asset {
	return stac.Asset{
		Href:  href,
		Type:  MediaTypeGRIB2,
		Title: "GRIB2 file",
		Roles: []string{"data", "source"},
	}
}

func indexAsset(href string) stac.Asset {
	return stac.Asset{
		Href:  href,
		Type:  MediaTypeIndex,
		Title: "Index file",
		Roles: []string{"metadata", "index"},
	}
}

// bandDataType is the raster data type of every unpacked GRIB2 field.
const bandDataType = "float64"
