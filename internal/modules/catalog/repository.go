package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/marketclock/marketclock/internal/database"
	"github.com/marketclock/marketclock/internal/modules/market_hours"
)

const exchangeColumns = `id, slug, name, short_name, country, city, timezone, tier, position, is_active, jurisdiction`

const sessionColumns = `id, exchange_id, weekday, open_time, close_time, has_lunch_break, lunch_open_time, lunch_close_time`

const holidayColumns = `id, exchange_id, date, name, is_closed_all_day, open_time_override, close_time_override`

type exchangeRow struct {
	ID           string `db:"id"`
	Slug         string `db:"slug"`
	Name         string `db:"name"`
	ShortName    string `db:"short_name"`
	Country      string `db:"country"`
	City         string `db:"city"`
	Timezone     string `db:"timezone"`
	Tier         int    `db:"tier"`
	Position     int    `db:"position"`
	IsActive     bool   `db:"is_active"`
	Jurisdiction string `db:"jurisdiction"`
}

type sessionRow struct {
	ID             string         `db:"id"`
	ExchangeID     string         `db:"exchange_id"`
	Weekday        int            `db:"weekday"`
	OpenTime       string         `db:"open_time"`
	CloseTime      string         `db:"close_time"`
	HasLunchBreak  bool           `db:"has_lunch_break"`
	LunchOpenTime  sql.NullString `db:"lunch_open_time"`
	LunchCloseTime sql.NullString `db:"lunch_close_time"`
}

type holidayRow struct {
	ID                string         `db:"id"`
	ExchangeID        string         `db:"exchange_id"`
	Date              string         `db:"date"`
	Name              string         `db:"name"`
	IsClosedAllDay    bool           `db:"is_closed_all_day"`
	OpenTimeOverride  sql.NullString `db:"open_time_override"`
	CloseTimeOverride sql.NullString `db:"close_time_override"`
}

// Repository reads and seeds the exchange catalogue tables.
// Queries are written with '?' placeholders and rebound for the connection's driver,
// so the same repository serves SQLite and PostgreSQL.
type Repository struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// NewRepository creates a catalogue repository over an open connection
func NewRepository(db *sqlx.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "catalog").Logger(),
	}
}

// Name implements Source
func (r *Repository) Name() string {
	return r.db.DriverName()
}

// Load implements Source
func (r *Repository) Load(ctx context.Context) (*market_hours.Catalog, error) {
	exchanges, err := r.ListExchanges(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []sessionRow
	query := "SELECT " + sessionColumns + " FROM sessions ORDER BY exchange_id, weekday"
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	var holidays []holidayRow
	query = "SELECT " + holidayColumns + " FROM holidays ORDER BY exchange_id, date"
	if err := r.db.SelectContext(ctx, &holidays, query); err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	catalog := &market_hours.Catalog{
		Exchanges: exchanges,
		Sessions:  make([]market_hours.Session, 0, len(sessions)),
		Holidays:  make([]market_hours.Holiday, 0, len(holidays)),
	}
	for _, row := range sessions {
		catalog.Sessions = append(catalog.Sessions, row.toSession())
	}
	for _, row := range holidays {
		catalog.Holidays = append(catalog.Holidays, row.toHoliday())
	}

	r.log.Debug().
		Int("exchanges", len(catalog.Exchanges)).
		Int("sessions", len(catalog.Sessions)).
		Int("holidays", len(catalog.Holidays)).
		Msg("Loaded catalogue")

	return catalog, nil
}

// ListExchanges returns every exchange ordered by position, inactive ones included
func (r *Repository) ListExchanges(ctx context.Context) ([]market_hours.Exchange, error) {
	var rows []exchangeRow
	query := "SELECT " + exchangeColumns + " FROM exchanges ORDER BY position, slug"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}

	exchanges := make([]market_hours.Exchange, 0, len(rows))
	for _, row := range rows {
		exchanges = append(exchanges, market_hours.Exchange(row))
	}
	return exchanges, nil
}

// SessionsFor returns the weekly sessions of one exchange ordered by weekday
func (r *Repository) SessionsFor(ctx context.Context, exchangeID string) ([]market_hours.Session, error) {
	var rows []sessionRow
	query := r.db.Rebind("SELECT " + sessionColumns + " FROM sessions WHERE exchange_id = ? ORDER BY weekday")
	if err := r.db.SelectContext(ctx, &rows, query, exchangeID); err != nil {
		return nil, fmt.Errorf("failed to get sessions for %s: %w", exchangeID, err)
	}

	sessions := make([]market_hours.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toSession())
	}
	return sessions, nil
}

// HolidaysBetween returns the static holidays of one exchange with from <= date <= to
func (r *Repository) HolidaysBetween(ctx context.Context, exchangeID string, from, to market_hours.LocalDate) ([]market_hours.Holiday, error) {
	var rows []holidayRow
	query := r.db.Rebind("SELECT " + holidayColumns +
		" FROM holidays WHERE exchange_id = ? AND date >= ? AND date <= ? ORDER BY date")
	if err := r.db.SelectContext(ctx, &rows, query, exchangeID, from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("failed to get holidays for %s: %w", exchangeID, err)
	}

	holidays := make([]market_hours.Holiday, 0, len(rows))
	for _, row := range rows {
		holidays = append(holidays, row.toHoliday())
	}
	return holidays, nil
}

// IsEmpty reports whether no exchange has been stored yet
func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM exchanges"); err != nil {
		return false, fmt.Errorf("failed to count exchanges: %w", err)
	}
	return count == 0, nil
}

// Seed upserts a whole catalogue in one transaction.
// Sessions are keyed by (exchange, weekday) and holidays by (exchange, date);
// rows without an ID are assigned a random UUID.
func (r *Repository) Seed(ctx context.Context, catalog *market_hours.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalogue is nil")
	}

	err := database.WithTransaction(r.db, func(tx *sqlx.Tx) error {
		for _, ex := range catalog.Exchanges {
			if _, err := tx.NamedExecContext(ctx, upsertExchange, exchangeRow(ex)); err != nil {
				return fmt.Errorf("failed to upsert exchange %s: %w", ex.Slug, err)
			}
		}
		for _, s := range catalog.Sessions {
			if _, err := tx.NamedExecContext(ctx, upsertSession, newSessionRow(s)); err != nil {
				return fmt.Errorf("failed to upsert session %s/%d: %w", s.ExchangeID, s.Weekday, err)
			}
		}
		for _, h := range catalog.Holidays {
			if _, err := tx.NamedExecContext(ctx, upsertHoliday, newHolidayRow(h)); err != nil {
				return fmt.Errorf("failed to upsert holiday %s/%s: %w", h.ExchangeID, h.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().
		Int("exchanges", len(catalog.Exchanges)).
		Int("sessions", len(catalog.Sessions)).
		Int("holidays", len(catalog.Holidays)).
		Msg("Seeded catalogue")
	return nil
}

const upsertExchange = `
	INSERT INTO exchanges (` + exchangeColumns + `)
	VALUES (:id, :slug, :name, :short_name, :country, :city, :timezone, :tier, :position, :is_active, :jurisdiction)
	ON CONFLICT (id) DO UPDATE SET
		slug = excluded.slug,
		name = excluded.name,
		short_name = excluded.short_name,
		country = excluded.country,
		city = excluded.city,
		timezone = excluded.timezone,
		tier = excluded.tier,
		position = excluded.position,
		is_active = excluded.is_active,
		jurisdiction = excluded.jurisdiction`

const upsertSession = `
	INSERT INTO sessions (` + sessionColumns + `)
	VALUES (:id, :exchange_id, :weekday, :open_time, :close_time, :has_lunch_break, :lunch_open_time, :lunch_close_time)
	ON CONFLICT (exchange_id, weekday) DO UPDATE SET
		open_time = excluded.open_time,
		close_time = excluded.close_time,
		has_lunch_break = excluded.has_lunch_break,
		lunch_open_time = excluded.lunch_open_time,
		lunch_close_time = excluded.lunch_close_time`

const upsertHoliday = `
	INSERT INTO holidays (` + holidayColumns + `)
	VALUES (:id, :exchange_id, :date, :name, :is_closed_all_day, :open_time_override, :close_time_override)
	ON CONFLICT (exchange_id, date) DO UPDATE SET
		name = excluded.name,
		is_closed_all_day = excluded.is_closed_all_day,
		open_time_override = excluded.open_time_override,
		close_time_override = excluded.close_time_override`

func newSessionRow(s market_hours.Session) sessionRow {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return sessionRow{
		ID:             s.ID,
		ExchangeID:     s.ExchangeID,
		Weekday:        s.Weekday,
		OpenTime:       s.OpenTime,
		CloseTime:      s.CloseTime,
		HasLunchBreak:  s.HasLunchBreak,
		LunchOpenTime:  nullString(s.LunchOpenTime),
		LunchCloseTime: nullString(s.LunchCloseTime),
	}
}

func (row sessionRow) toSession() market_hours.Session {
	return market_hours.Session{
		ID:             row.ID,
		ExchangeID:     row.ExchangeID,
		Weekday:        row.Weekday,
		OpenTime:       row.OpenTime,
		CloseTime:      row.CloseTime,
		HasLunchBreak:  row.HasLunchBreak,
		LunchOpenTime:  row.LunchOpenTime.String,
		LunchCloseTime: row.LunchCloseTime.String,
	}
}

func newHolidayRow(h market_hours.Holiday) holidayRow {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return holidayRow{
		ID:                h.ID,
		ExchangeID:        h.ExchangeID,
		Date:              h.Date,
		Name:              h.Name,
		IsClosedAllDay:    h.IsClosedAllDay,
		OpenTimeOverride:  nullString(h.OpenTimeOverride),
		CloseTimeOverride: nullString(h.CloseTimeOverride),
	}
}

func (row holidayRow) toHoliday() market_hours.Holiday {
	return market_hours.Holiday{
		ID:                row.ID,
		ExchangeID:        row.ExchangeID,
		Date:              row.Date,
		Name:              row.Name,
		IsClosedAllDay:    row.IsClosedAllDay,
		OpenTimeOverride:  row.OpenTimeOverride.String,
		CloseTimeOverride: row.CloseTimeOverride.String,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
