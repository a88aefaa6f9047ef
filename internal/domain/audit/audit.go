package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

// Entry is one appended line of the action trail. Entries are never
// updated or deleted.
type Entry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Recorder struct {
	store  *Store
	logger zerolog.Logger
}

func NewRecorder(store *Store, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends an entry and never fails the caller: a broken audit
// insert is logged and swallowed so business writes still go through.
func (r *Recorder) Record(ctx context.Context, actorID, action, entity, entityID, detail string) {
	err := r.store.Insert(ctx, Entry{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		r.logger.Error().Err(err).
			Str("action", action).
			Str("entity", entity).
			Msg("audit insert failed")
	}
}

func (r *Recorder) List(ctx context.Context, entity string, limit int) ([]Entry, error) {
	return r.store.List(ctx, entity, limit)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Insert(ctx context.Context, e Entry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_log (actor_id, action, entity, entity_id, detail)
    VALUES ($1,$2,$3,$4,$5)
  `, e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail)
	return err
}

func (s *Store) List(ctx context.Context, entity string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
    SELECT id, actor_id, action, entity, COALESCE(entity_id, ''), COALESCE(detail, ''), created_at
    FROM audit_log
  `
	args := []any{limit}
	if entity != "" {
		query += " WHERE entity = $2"
		args = append(args, entity)
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
