package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const ownerKeyConstraint = "exercise_definition_owner_key_key"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Get loads the whole aggregate in one repeatable read transaction,
// so concurrent writes are seen either fully or not at all.
func (r *Repo) Get(ctx context.Context, id string) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_definitions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var def Definition
	err = tx.QueryRow(
		ctx,
		`
			SELECT
			    id::text, owner, key, name, category, rep_mode, created_at, updated_at
			FROM exercise_definition
			WHERE id::text = $1
		`,
		id,
	).Scan(
		&def.ID,
		&def.Owner,
		&def.Key,
		&def.Name,
		&def.Category,
		&def.RepMode,
		&def.CreatedAt,
		&def.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("exercise definition [query row]: %w", err)
	}

	defs := []*Definition{&def}
	if err := loadChildren(ctx, tx, defs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &def, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_definitions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("params.owner", params.Owner),
		attribute.Bool("params.includeSystem", params.IncludeSystem),
	)
	if params.Category != "" {
		span.SetAttributes(attribute.String("params.category", params.Category))
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(
		ctx,
		`
			SELECT
			    id::text, owner, key, name, category, rep_mode, created_at, updated_at
			FROM exercise_definition
			WHERE (owner = $1 OR ($2::boolean AND owner = $3))
				AND ($4::text = '' OR category = $4)
			ORDER BY key, owner
		`,
		params.Owner,
		params.IncludeSystem,
		SystemOwner,
		params.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise definitions [query]: %w", err)
	}

	var defs []*Definition
	for rows.Next() {
		var def Definition
		err := rows.Scan(
			&def.ID,
			&def.Owner,
			&def.Key,
			&def.Name,
			&def.Category,
			&def.RepMode,
			&def.CreatedAt,
			&def.UpdatedAt,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("exercise definitions [rows scan]: %w", err)
		}
		defs = append(defs, &def)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise definitions [rows error]: %w", err)
	}

	if err := loadChildren(ctx, tx, defs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	result := make([]Definition, 0, len(defs))
	for _, def := range defs {
		result = append(result, *def)
	}
	return result, nil
}

// Create inserts the definition and all its child rows in one transaction.
func (r *Repo) Create(ctx context.Context, def *Definition) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_definitions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("id", def.ID),
		attribute.String("owner", def.Owner),
		attribute.String("key", def.Key),
	)

	return r.inTx(ctx, "create", def, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`
				INSERT INTO exercise_definition
				    (id, owner, key, name, category, rep_mode, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`,
			def.ID,
			def.Owner,
			def.Key,
			def.Name,
			def.Category,
			def.RepMode,
			def.CreatedAt,
			def.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert exercise definition: %w", err)
		}
		return insertChildren(ctx, tx, def)
	})
}

// Replace swaps every child row of an existing definition in one transaction.
// Supports are deleted first, which cascades to overrides and effects.
func (r *Repo) Replace(ctx context.Context, def *Definition) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_definitions.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", def.ID))

	return r.inTx(ctx, "replace", def, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`
				UPDATE exercise_definition
				SET name = $3, rep_mode = $4, updated_at = $5
				WHERE id = $1 AND owner = $2
			`,
			def.ID,
			def.Owner,
			def.Name,
			def.RepMode,
			def.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update exercise definition: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrExerciseNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM exercise_variation_support WHERE exercise_id = $1`, def.ID); err != nil {
			return fmt.Errorf("delete supports: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM exercise_target WHERE exercise_id = $1`, def.ID); err != nil {
			return fmt.Errorf("delete targets: %w", err)
		}
		return insertChildren(ctx, tx, def)
	})
}

func (r *Repo) inTx(ctx context.Context, op string, def *Definition, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return &IntegrityError{Op: op, Err: fmt.Errorf("begin tx: %w", err)}
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
		return classifyWriteError(op, def, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyWriteError(op, def, fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func classifyWriteError(op string, def *Definition, err error) error {
	switch {
	case errors.Is(err, ErrExerciseNotFound):
		return err
	case pkg.IsUniqueViolationError(err) && pkg.PgConstraintName(err) == ownerKeyConstraint:
		return &ConflictError{Owner: def.Owner, Key: def.Key}
	default:
		return &IntegrityError{Op: op, Err: err}
	}
}

func insertChildren(ctx context.Context, tx pgx.Tx, def *Definition) error {
	batch := &pgx.Batch{}
	for i, t := range def.Targets {
		batch.Queue(
			`INSERT INTO exercise_target (exercise_id, position, muscle, weight) VALUES ($1, $2, $3, $4)`,
			def.ID, i, t.Muscle, t.Weight,
		)
	}
	for i, s := range def.Supports {
		batch.Queue(
			`
				INSERT INTO exercise_variation_support
				    (exercise_id, template_id, position, label_override, default_option_key)
				VALUES ($1, $2, $3, $4, $5)
			`,
			def.ID, s.TemplateID, i, s.LabelOverride, s.DefaultOptionKey,
		)
	}
	for i, o := range def.OptionOverrides {
		batch.Queue(
			`
				INSERT INTO exercise_option_override
				    (exercise_id, template_id, option_key, position, label)
				VALUES ($1, $2, $3, $4, $5)
			`,
			def.ID, o.TemplateID, o.OptionKey, i, o.Label,
		)
	}
	for i, e := range def.Effects {
		multipliers := e.Effect.Multipliers
		if multipliers == nil {
			multipliers = map[string]float64{}
		}
		deltas := e.Effect.Deltas
		if deltas == nil {
			deltas = map[string]float64{}
		}
		batch.Queue(
			`
				INSERT INTO exercise_variation_effect
				    (exercise_id, template_id, option_key, position, multipliers, deltas)
				VALUES ($1, $2, $3, $4, $5, $6)
			`,
			def.ID, e.TemplateID, e.OptionKey, i, multipliers, deltas,
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var err error
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := br.Exec(); execErr != nil {
			err = fmt.Errorf("insert child row %d: %w", i, execErr)
			break
		}
	}
	if closeErr := br.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close batch: %w", closeErr)
	}
	return err
}

func loadChildren(ctx context.Context, tx pgx.Tx, defs []*Definition) error {
	if len(defs) == 0 {
		return nil
	}

	byID := make(map[string]*Definition, len(defs))
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		def.Targets = []TargetWeight{}
		def.Supports = []VariationSupport{}
		def.OptionOverrides = []OptionLabelOverride{}
		def.Effects = []VariationEffect{}
		byID[def.ID] = def
		ids = append(ids, def.ID)
	}

	rows, err := tx.Query(
		ctx,
		`
			SELECT exercise_id::text, muscle, weight
			FROM exercise_target
			WHERE exercise_id = ANY($1::uuid[])
			ORDER BY exercise_id, position
		`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("exercise targets [query]: %w", err)
	}
	for rows.Next() {
		var exerciseID string
		var t TargetWeight
		if err := rows.Scan(&exerciseID, &t.Muscle, &t.Weight); err != nil {
			rows.Close()
			return fmt.Errorf("exercise targets [rows scan]: %w", err)
		}
		byID[exerciseID].Targets = append(byID[exerciseID].Targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("exercise targets [rows error]: %w", err)
	}

	rows, err = tx.Query(
		ctx,
		`
			SELECT exercise_id::text, template_id, label_override, default_option_key
			FROM exercise_variation_support
			WHERE exercise_id = ANY($1::uuid[])
			ORDER BY exercise_id, position
		`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("variation supports [query]: %w", err)
	}
	for rows.Next() {
		var exerciseID string
		var s VariationSupport
		if err := rows.Scan(&exerciseID, &s.TemplateID, &s.LabelOverride, &s.DefaultOptionKey); err != nil {
			rows.Close()
			return fmt.Errorf("variation supports [rows scan]: %w", err)
		}
		byID[exerciseID].Supports = append(byID[exerciseID].Supports, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("variation supports [rows error]: %w", err)
	}

	rows, err = tx.Query(
		ctx,
		`
			SELECT exercise_id::text, template_id, option_key, label
			FROM exercise_option_override
			WHERE exercise_id = ANY($1::uuid[])
			ORDER BY exercise_id, position
		`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("option overrides [query]: %w", err)
	}
	for rows.Next() {
		var exerciseID string
		var o OptionLabelOverride
		if err := rows.Scan(&exerciseID, &o.TemplateID, &o.OptionKey, &o.Label); err != nil {
			rows.Close()
			return fmt.Errorf("option overrides [rows scan]: %w", err)
		}
		byID[exerciseID].OptionOverrides = append(byID[exerciseID].OptionOverrides, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("option overrides [rows error]: %w", err)
	}

	rows, err = tx.Query(
		ctx,
		`
			SELECT exercise_id::text, template_id, option_key, multipliers, deltas
			FROM exercise_variation_effect
			WHERE exercise_id = ANY($1::uuid[])
			ORDER BY exercise_id, position
		`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("variation effects [query]: %w", err)
	}
	for rows.Next() {
		var exerciseID string
		var e VariationEffect
		if err := rows.Scan(&exerciseID, &e.TemplateID, &e.OptionKey, &e.Effect.Multipliers, &e.Effect.Deltas); err != nil {
			rows.Close()
			return fmt.Errorf("variation effects [rows scan]: %w", err)
		}
		byID[exerciseID].Effects = append(byID[exerciseID].Effects, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("variation effects [rows error]: %w", err)
	}

	return nil
}
