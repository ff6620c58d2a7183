package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/jiwonseo/kma-dashboard/internal/kma"
)

// ErrNoBulletin is returned when no bulletin has been stored for the grid
// coordinate. It signals "no data", not a failure.
var ErrNoBulletin = errors.New("no forecast bulletin for grid coordinate")

// Record is one stored upstream fact: a single (category, raw value) pair of
// one bulletin, keyed by reference stamp, forecast stamp, and grid.
// The key tuple (BaseDate, BaseTime, FcstDate, FcstTime, Nx, Ny, Category)
// is unique in the store; a second write replaces the prior value.
type Record struct {
	BaseDate   string // YYYYMMDD
	BaseTime   string // HHMM
	FcstDate   string // YYYYMMDD
	FcstTime   string // HHMM
	Nx         int
	Ny         int
	Category   string
	Value      string
	RecordedAt time.Time
}

// Point is the decoded view of one forecast hour. Derived on read, never
// persisted.
type Point struct {
	ForecastDate string    `json:"forecastDate"`
	ForecastTime string    `json:"forecastTime"`
	Timestamp    time.Time `json:"timestamp"`

	TemperatureC             float64 `json:"temperatureC"`
	HumidityPct              float64 `json:"humidityPercent"`
	PrecipitationMM          float64 `json:"precipitationMm"`
	PrecipitationType        string  `json:"precipitationType"`
	PrecipitationTypeCode    int     `json:"precipitationTypeCode"`
	SkyCondition             string  `json:"skyCondition"`
	SkyConditionCode         int     `json:"skyConditionCode"`
	WindDirectionDeg         float64 `json:"windDirectionDeg"`
	WindSpeedMS              float64 `json:"windSpeedMs"`
	PrecipitationProbability int     `json:"precipitationProbability"`
}

// Snapshot is the reconstructed latest-bulletin view: the bulletin's
// reference stamp, its grid, and at most ten forward-looking hourly points.
type Snapshot struct {
	BaseDate string  `json:"baseDate"`
	BaseTime string  `json:"baseTime"`
	Nx       int     `json:"gridX"`
	Ny       int     `json:"gridY"`
	Points   []Point `json:"points"`
}

// Fetcher abstracts the upstream bulletin source.
type Fetcher interface {
	FetchBulletin(ctx context.Context, nx, ny int) (kma.Bulletin, error)
}

// Store is the contract any persistent snapshot store must satisfy.
type Store interface {
	// UpsertBulletin writes all records of one fetch under a single
	// transaction, replacing rows that share the key tuple.
	UpsertBulletin(ctx context.Context, records []Record) error
	// LatestBulletin returns all rows of the newest bulletin for the
	// grid, ordered by forecast stamp ascending, or ErrNoBulletin.
	LatestBulletin(ctx context.Context, nx, ny int) ([]Record, error)
	// PruneBefore deletes every bulletin whose base date sorts before
	// cutoffDate (YYYYMMDD) and reports how many rows went away.
	PruneBefore(ctx context.Context, cutoffDate string) (int64, error)
	Close() error
}
