package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetSession(ctx context.Context, id string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	var session Session
	err = r.inReadTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			`
				SELECT id::text, owner, date_str, start_time, end_time, created_at
				FROM workout_session
				WHERE id::text = $1
			`,
			id,
		).Scan(
			&session.ID,
			&session.Owner,
			&session.Date,
			&session.StartTime,
			&session.EndTime,
			&session.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("workout session [query row]: %w", err)
		}
		return loadSessionEntries(ctx, tx, []*Session{&session})
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateSession stores the session, its entries, their variations and sets
// in one transaction.
func (r *Repo) CreateSession(ctx context.Context, session *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.session.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("id", session.ID),
		attribute.Int("entries", len(session.Entries)),
	)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`
				INSERT INTO workout_session (id, owner, date_str, start_time, end_time, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`,
			session.ID,
			session.Owner,
			session.Date,
			session.StartTime,
			session.EndTime,
			session.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert workout session: %w", err)
		}

		batch := &pgx.Batch{}
		for i := range session.Entries {
			entry := session.Entries[i]
			entry.SessionID = session.ID
			queueEntry(batch, &entry, i)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// AddEntry stores one entry. An entry appended to a session goes after the
// entries already recorded there.
func (r *Repo) AddEntry(ctx context.Context, entry *Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.entry.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", entry.ID))

	return r.inTx(ctx, func(tx pgx.Tx) error {
		position := 0
		if entry.SessionID != "" {
			// lock the session row so concurrent appends get distinct positions
			var locked string
			err := tx.QueryRow(
				ctx,
				`SELECT id::text FROM workout_session WHERE id::text = $1 FOR UPDATE`,
				entry.SessionID,
			).Scan(&locked)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSessionNotFound
			}
			if err != nil {
				return fmt.Errorf("lock workout session: %w", err)
			}

			err = tx.QueryRow(
				ctx,
				`SELECT COALESCE(MAX(position) + 1, 0) FROM workout_entry WHERE session_id::text = $1`,
				entry.SessionID,
			).Scan(&position)
			if err != nil {
				return fmt.Errorf("next entry position: %w", err)
			}
		}

		batch := &pgx.Batch{}
		queueEntry(batch, entry, position)
		return sendBatch(ctx, tx, batch)
	})
}

func (r *Repo) GetEntry(ctx context.Context, id string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.entry.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	var entries []*Entry
	err = r.inReadTx(ctx, func(tx pgx.Tx) error {
		entries, err = queryEntries(ctx, tx, `WHERE id::text = $1`, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEntryNotFound
	}
	return entries[0], nil
}

func (r *Repo) ListSessions(ctx context.Context, params ListSessionsParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.session.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("params.owner", params.Owner))

	var sessions []*Session
	err = r.inReadTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(
			ctx,
			`
				SELECT id::text, owner, date_str, start_time, end_time, created_at
				FROM workout_session
				WHERE owner = $1
					AND ($2::text = '' OR date_str >= $2)
					AND ($3::text = '' OR date_str <= $3)
				ORDER BY date_str DESC, start_time DESC, id
			`,
			params.Owner,
			params.From,
			params.To,
		)
		if err != nil {
			return fmt.Errorf("workout sessions [query]: %w", err)
		}

		for rows.Next() {
			var session Session
			if err := rows.Scan(
				&session.ID,
				&session.Owner,
				&session.Date,
				&session.StartTime,
				&session.EndTime,
				&session.CreatedAt,
			); err != nil {
				rows.Close()
				return fmt.Errorf("workout sessions [rows scan]: %w", err)
			}
			sessions = append(sessions, &session)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("workout sessions [rows error]: %w", err)
		}

		return loadSessionEntries(ctx, tx, sessions)
	})
	if err != nil {
		return nil, err
	}

	result := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, *session)
	}
	return result, nil
}

// ListHistory returns every entry of the owner, newest first, dated by its
// session or, for standalone entries, by the UTC day it was recorded.
func (r *Repo) ListHistory(ctx context.Context, owner string) (_ []HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.history.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("params.owner", owner))

	var history []HistoryEntry
	err = r.inReadTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(
			ctx,
			`
				SELECT
				    e.id::text,
				    COALESCE(s.date_str, to_char(e.created_at AT TIME ZONE 'UTC', 'YYYYMMDD')) AS day
				FROM workout_entry e
				LEFT JOIN workout_session s ON s.id = e.session_id
				WHERE e.owner = $1
				ORDER BY day DESC, s.start_time DESC NULLS LAST, e.position DESC, e.created_at DESC
			`,
			owner,
		)
		if err != nil {
			return fmt.Errorf("workout history [query]: %w", err)
		}

		var ids []string
		days := make(map[string]string)
		for rows.Next() {
			var id, day string
			if err := rows.Scan(&id, &day); err != nil {
				rows.Close()
				return fmt.Errorf("workout history [rows scan]: %w", err)
			}
			ids = append(ids, id)
			days[id] = day
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("workout history [rows error]: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		entries, err := queryEntries(ctx, tx, `WHERE owner = $1`, owner)
		if err != nil {
			return err
		}
		byID := make(map[string]*Entry, len(entries))
		for _, entry := range entries {
			byID[entry.ID] = entry
		}

		history = make([]HistoryEntry, 0, len(ids))
		for _, id := range ids {
			entry, ok := byID[id]
			if !ok {
				continue
			}
			history = append(history, HistoryEntry{Entry: *entry, Date: days[id]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// inReadTx runs fn in a read only repeatable read transaction, so a
// concurrent write is seen either fully or not at all.
func (r *Repo) inReadTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		return classifyWriteError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func classifyWriteError(err error) error {
	switch {
	case pkg.IsForeignKeyViolationError(err) && pkg.PgConstraintName(err) == "workout_entry_exercise_id_fkey":
		return exercises.ErrExerciseNotFound
	case pkg.IsCheckViolationError(err):
		return &exercises.ValidationError{Field: "sets", Reason: "set is out of range"}
	default:
		return err
	}
}

func queueEntry(batch *pgx.Batch, entry *Entry, position int) {
	batch.Queue(
		`
			INSERT INTO workout_entry
			    (id, owner, session_id, exercise_id, position, notes, distance, distance_unit, created_at)
			VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, NULLIF($8, ''), $9)
		`,
		entry.ID,
		entry.Owner,
		entry.SessionID,
		entry.ExerciseID,
		position,
		entry.Notes,
		entry.Distance,
		entry.Unit,
		entry.CreatedAt,
	)
	for templateID, optionKey := range entry.Variations {
		batch.Queue(
			`INSERT INTO workout_entry_variation (entry_id, template_id, option_key) VALUES ($1, $2, $3)`,
			entry.ID, templateID, optionKey,
		)
	}
	for i, set := range entry.Sets {
		batch.Queue(
			`
				INSERT INTO workout_set
				    (entry_id, position, weight, reps_bilateral, reps_left, reps_right, effort, duration_seconds)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`,
			entry.ID,
			i,
			set.Weight,
			set.Reps.Bilateral,
			set.Reps.Left,
			set.Reps.Right,
			set.Effort,
			set.DurationSeconds,
		)
	}
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var err error
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := br.Exec(); execErr != nil {
			err = fmt.Errorf("insert workout row %d: %w", i, execErr)
			break
		}
	}
	if closeErr := br.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close batch: %w", closeErr)
	}
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadSessionEntries(ctx context.Context, db querier, sessions []*Session) error {
	if len(sessions) == 0 {
		return nil
	}

	byID := make(map[string]*Session, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		session.Entries = []Entry{}
		byID[session.ID] = session
		ids = append(ids, session.ID)
	}

	entries, err := queryEntries(ctx, db, `WHERE session_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		session := byID[entry.SessionID]
		session.Entries = append(session.Entries, *entry)
	}
	return nil
}

// queryEntries loads entries matching where, ordered by position, with their
// variations and sets.
func queryEntries(ctx context.Context, db querier, where string, arg any) ([]*Entry, error) {
	rows, err := db.Query(
		ctx,
		`
			SELECT
			    id::text, owner, COALESCE(session_id::text, ''), exercise_id::text,
			    notes, distance, COALESCE(distance_unit, ''), created_at
			FROM workout_entry
			`+where+`
			ORDER BY session_id, position, created_at
		`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("workout entries [query]: %w", err)
	}

	var entries []*Entry
	byID := make(map[string]*Entry)
	for rows.Next() {
		entry := &Entry{
			Variations: exercises.Selection{},
			Sets:       []Set{},
		}
		if err := rows.Scan(
			&entry.ID,
			&entry.Owner,
			&entry.SessionID,
			&entry.ExerciseID,
			&entry.Notes,
			&entry.Distance,
			&entry.Unit,
			&entry.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("workout entries [rows scan]: %w", err)
		}
		entries = append(entries, entry)
		byID[entry.ID] = entry
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout entries [rows error]: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	rows, err = db.Query(
		ctx,
		`
			SELECT entry_id::text, template_id, option_key
			FROM workout_entry_variation
			WHERE entry_id = ANY($1::uuid[])
		`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("entry variations [query]: %w", err)
	}
	for rows.Next() {
		var entryID, templateID, optionKey string
		if err := rows.Scan(&entryID, &templateID, &optionKey); err != nil {
			rows.Close()
			return nil, fmt.Errorf("entry variations [rows scan]: %w", err)
		}
		byID[entryID].Variations[templateID] = optionKey
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entry variations [rows error]: %w", err)
	}

	rows, err = db.Query(
		ctx,
		`
			SELECT entry_id::text, weight, reps_bilateral, reps_left, reps_right, effort, duration_seconds
			FROM workout_set
			WHERE entry_id = ANY($1::uuid[])
			ORDER BY entry_id, position
		`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("workout sets [query]: %w", err)
	}
	for rows.Next() {
		var entryID string
		var set Set
		if err := rows.Scan(
			&entryID,
			&set.Weight,
			&set.Reps.Bilateral,
			&set.Reps.Left,
			&set.Reps.Right,
			&set.Effort,
			&set.DurationSeconds,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("workout sets [rows scan]: %w", err)
		}
		byID[entryID].Sets = append(byID[entryID].Sets, set)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout sets [rows error]: %w", err)
	}

	return entries, nil
}
