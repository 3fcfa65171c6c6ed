package fdsn

import (
	"encoding/xml"
)

// The subset of FDSN StationXML 1.1 needed to locate a station.

type FDSNStationXML struct {
	XMLName       xml.Name      `xml:"FDSNStationXML"`
	SchemaVersion string        `xml:"schemaVersion,attr"`
	Source        string        `xml:"Source"`
	Sender        string        `xml:"Sender,omitempty"`
	Created       Time          `xml:"Created"`
	Network       []NetworkType `xml:"Network"`
}

type BaseNodeType struct {
	Code        string `xml:"code,attr"`
	StartDate   Time   `xml:"startDate,attr,omitempty"`
	EndDate     Time   `xml:"endDate,attr,omitempty"`
	Description string `xml:"Description,omitempty"`
}

type NetworkType struct {
	BaseNodeType
	Station []StationType `xml:"Station"`
}

type StationType struct {
	BaseNodeType
	Latitude  LatitudeType  `xml:"Latitude"`
	Longitude LongitudeType `xml:"Longitude"`
	Elevation DistanceType  `xml:"Elevation"`
	Site      SiteType      `xml:"Site"`
	Channel   []ChannelType `xml:"Channel,omitempty"`
}

type ChannelType struct {
	BaseNodeType
	LocationCode string         `xml:"locationCode,attr"`
	Latitude     LatitudeType   `xml:"Latitude"`
	Longitude    LongitudeType  `xml:"Longitude"`
	Elevation    DistanceType   `xml:"Elevation"`
	Depth        DistanceType   `xml:"Depth"`
	Azimuth      *AzimuthType   `xml:"Azimuth,omitempty"`
	Dip          *DipType       `xml:"Dip,omitempty"`
	SampleRate   *FloatUnitType `xml:"SampleRate,omitempty"`
}

// Description of a site location using name and optional geopolitical boundaries (country, city, etc.).
type SiteType struct {
	Name    string `xml:"Name"`
	Region  string `xml:"Region,omitempty"`
	Country string `xml:"Country,omitempty"`
}

// DistanceType represents distance measurements in meters
type DistanceType struct {
	Value float64 `xml:",chardata"`
	Unit  string  `xml:"unit,attr,omitempty"`
}

// LatitudeType is latitude in degrees, -90 to 90
type LatitudeType struct {
	Value float64 `xml:",chardata"`
	Datum string  `xml:"datum,attr,omitempty"`
}

// LongitudeType is longitude in degrees, -180 to 180
type LongitudeType struct {
	Value float64 `xml:",chardata"`
	Datum string  `xml:"datum,attr,omitempty"`
}

// AzimuthType represents azimuth in degrees clockwise from north (0-360)
type AzimuthType struct {
	Value float64 `xml:",chardata"`
}

// DipType represents dip in degrees, positive down from horizontal (-90 to +90)
type DipType struct {
	Value float64 `xml:",chardata"`
}

type FloatUnitType struct {
	Value float64 `xml:",chardata"`
	Unit  string  `xml:"unit,attr,omitempty"`
}
