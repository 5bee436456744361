package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

//go:embed exchanges.yaml
var embeddedCatalog []byte

// catalogFile is the on-disk layout of a YAML catalogue.
// Each exchange carries a weekly template instead of seven session rows.
type catalogFile struct {
	Exchanges []exchangeEntry `yaml:"exchanges"`
}

type exchangeEntry struct {
	market_hours.Exchange `yaml:",inline"`
	Week                  *weekTemplate  `yaml:"week"`
	Holidays              []holidayEntry `yaml:"holidays"`
}

type weekTemplate struct {
	Weekdays   []int  `yaml:"weekdays"`
	Open       string `yaml:"open"`
	Close      string `yaml:"close"`
	LunchOpen  string `yaml:"lunch_open"`
	LunchClose string `yaml:"lunch_close"`
}

// holidayEntry is a full-day closure unless an open or close override is given
type holidayEntry struct {
	Date  string `yaml:"date"`
	Name  string `yaml:"name"`
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// StaticSource serves a catalogue parsed from YAML, by default the one compiled into the binary
type StaticSource struct {
	data []byte
}

// NewStaticSource returns a source over the embedded catalogue
func NewStaticSource() *StaticSource {
	return &StaticSource{data: embeddedCatalog}
}

// NewYAMLSource returns a source over an arbitrary YAML document in the same layout
func NewYAMLSource(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

// Name implements Source
func (s *StaticSource) Name() string {
	return "static"
}

// Load implements Source. The document is parsed on every call so callers get
// an independent copy they may modify.
func (s *StaticSource) Load(ctx context.Context) (*market_hours.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseYAML(s.data)
}

// ParseYAML decodes a YAML catalogue and expands weekly templates into sessions.
// Session and holiday IDs are derived from the exchange slug so repeated loads are stable.
func ParseYAML(data []byte) (*market_hours.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	catalog := &market_hours.Catalog{}
	for i, entry := range file.Exchanges {
		ex := entry.Exchange
		if ex.Slug == "" {
			return nil, fmt.Errorf("catalogue entry %d has no slug", i)
		}
		if ex.ID == "" {
			ex.ID = ex.Slug + "-market-id"
		}
		catalog.Exchanges = append(catalog.Exchanges, ex)

		if entry.Week != nil {
			catalog.Sessions = append(catalog.Sessions, entry.Week.sessions(ex)...)
		}
		for _, h := range entry.Holidays {
			catalog.Holidays = append(catalog.Holidays, market_hours.Holiday{
				ID:                "holiday-" + ex.Slug + "-" + h.Date,
				ExchangeID:        ex.ID,
				Date:              h.Date,
				Name:              h.Name,
				IsClosedAllDay:    h.Open == "" && h.Close == "",
				OpenTimeOverride:  h.Open,
				CloseTimeOverride: h.Close,
			})
		}
	}

	return catalog, nil
}

func (w *weekTemplate) sessions(ex market_hours.Exchange) []market_hours.Session {
	hasLunch := w.LunchOpen != "" || w.LunchClose != ""
	sessions := make([]market_hours.Session, 0, len(w.Weekdays))
	for _, wd := range w.Weekdays {
		sessions = append(sessions, market_hours.Session{
			ID:             "session-" + ex.Slug + "-" + strconv.Itoa(wd),
			ExchangeID:     ex.ID,
			Weekday:        wd,
			OpenTime:       w.Open,
			CloseTime:      w.Close,
			HasLunchBreak:  hasLunch,
			LunchOpenTime:  w.LunchOpen,
			LunchCloseTime: w.LunchClose,
		})
	}
	return sessions
}
