package kma

// Category codes consumed from the short-term forecast bulletin.
const (
	CategoryTemperature   = "TMP" // air temperature, °C
	CategoryHumidity      = "REH" // relative humidity, %
	CategoryPrecipitation = "PCP" // 1-hour precipitation amount, mm
	CategoryWindDirection = "VEC" // wind direction, deg
	CategoryWindSpeed     = "WSD" // wind speed, m/s
	CategorySky           = "SKY" // sky-condition code
	CategoryPrecipType    = "PTY" // precipitation-type code
	CategoryPrecipProb    = "POP" // precipitation probability, %
)

// Hour is one forecast hour of a bulletin: the raw category values the
// upstream published for a single (date, time) stamp.
type Hour struct {
	Date    string            // YYYYMMDD
	Time    string            // HHMM
	Weather map[string]string // category -> raw value
}

// Bulletin is one upstream publication reshaped from the API's flat item
// list: the reference stamp it was published under, the grid it covers, and
// its per-hour category maps ordered by forecast stamp ascending.
type Bulletin struct {
	BaseDate string // YYYYMMDD
	BaseTime string // HHMM
	Nx       int
	Ny       int
	Hours    []Hour
}
