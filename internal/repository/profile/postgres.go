package profileRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/persistence"
	ports "github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
)

type profileColumns struct {
	TableName            string
	UserID               string
	BirthDate            string
	BirthTime            string
	BirthLocation        string
	BirthCountry         string
	ZodiacSign           string
	Email                string
	CreatedAt            string
	UpdatedAt            string
	ChartGenerated       string
	LastChartGeneratedAt string
	Timezone             string
}

// PostgresRepository профили в Postgres, альтернативный драйвер хранилища
type PostgresRepository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns profileColumns
}

func NewPostgres(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	return &PostgresRepository{
		db:  db,
		Log: log,
		columns: profileColumns{
			TableName:            "user_profiles",
			UserID:               "user_id",
			BirthDate:            "birth_date",
			BirthTime:            "birth_time",
			BirthLocation:        "birth_location",
			BirthCountry:         "birth_country",
			ZodiacSign:           "zodiac_sign",
			Email:                "email",
			CreatedAt:            "created_at",
			UpdatedAt:            "updated_at",
			ChartGenerated:       "chart_generated",
			LastChartGeneratedAt: "last_chart_generated_at",
			Timezone:             "timezone",
		},
	}
}

func (r *PostgresRepository) allColumns() []string {
	c := r.columns
	return []string{
		c.UserID, c.BirthDate, c.BirthTime, c.BirthLocation, c.BirthCountry, c.ZodiacSign,
		c.Email, c.CreatedAt, c.UpdatedAt, c.ChartGenerated, c.LastChartGeneratedAt, c.Timezone,
	}
}

// Put upsert по user_id, запись перезаписывается целиком
func (r *PostgresRepository) Put(ctx context.Context, profile *domain.UserProfile) error {
	cols := r.allColumns()
	named := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, col := range cols {
		named[i] = ":" + col
		if col != r.columns.UserID {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		r.columns.TableName,
		strings.Join(cols, ", "),
		strings.Join(named, ", "),
		r.columns.UserID,
		strings.Join(updates, ", "))

	if err := r.db.NamedExec(ctx, query, profile); err != nil {
		r.Log.Error("failed to put profile",
			"error", err,
			"user_id", profile.UserID)
		return classifyPg(err, "failed to put profile")
	}

	r.Log.Debug("profile saved", "user_id", profile.UserID)
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(r.allColumns(), ", "),
		r.columns.TableName,
		r.columns.UserID)

	if err := r.db.Get(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		r.Log.Error("failed to get profile", "error", err, "user_id", userID)
		return nil, classifyPg(err, "failed to get profile")
	}

	return &profile, nil
}

func (r *PostgresRepository) MarkChartGenerated(ctx context.Context, userID string, at int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = $2, %s = $2 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.ChartGenerated,
		r.columns.LastChartGeneratedAt,
		r.columns.UpdatedAt,
		r.columns.UserID)

	rows, err := r.db.ExecWithResult(ctx, query, userID, at)
	if err != nil {
		r.Log.Error("failed to mark chart generated", "error", err, "user_id", userID)
		return classifyPg(err, "failed to mark chart generated")
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return classifyPg(err, "failed to ping database")
	}
	return nil
}

func classifyPg(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.StoreError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
