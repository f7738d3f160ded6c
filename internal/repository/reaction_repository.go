package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

type ReactionRepositoryImpl struct {
	DB *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) *ReactionRepositoryImpl {
	return &ReactionRepositoryImpl{DB: db}
}

// toggleQuery deletes the (actor, target, type) row if present and inserts it
// otherwise, in one statement. The unique partial indexes make a concurrent
// duplicate insert fall into ON CONFLICT DO NOTHING, which yields no row.
//
// $1 actor, $2 target id, $3 type, $4 new reaction id.
const toggleQuery = `
	WITH deleted AS (
		DELETE FROM reactions
		WHERE author_id = $1 AND %[1]s = $2 AND type = $3
		RETURNING reaction_id, type, author_id, post_id, reply_id, created_at
	), inserted AS (
		INSERT INTO reactions (reaction_id, type, author_id, %[1]s, created_at)
		SELECT $4::text, $3::text, $1::text, $2::text, now()
		WHERE NOT EXISTS (SELECT 1 FROM deleted)
		ON CONFLICT DO NOTHING
		RETURNING reaction_id, type, author_id, post_id, reply_id, created_at
	)
	SELECT 'removed' AS action, * FROM deleted
	UNION ALL
	SELECT 'added' AS action, * FROM inserted
`

const findReactionQuery = `
	SELECT * FROM reactions
	WHERE author_id = $1 AND %s = $2 AND type = $3
`

type toggleRow struct {
	Action models.ToggleAction `db:"action"`
	models.Reaction
}

func targetColumn(kind models.TargetKind) string {
	if kind == models.TargetPost {
		return "post_id"
	}
	return "reply_id"
}

func (r *ReactionRepositoryImpl) Toggle(ctx context.Context, actorID string, target models.Target, reactionType models.ReactionType) (*models.ToggleResult, error) {
	if err := target.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if !reactionType.Valid() {
		return nil, apperr.Validation("unknown reaction type %q", reactionType)
	}

	column := targetColumn(target.Kind())

	var rows []toggleRow
	err := r.DB.SelectContext(ctx, &rows, fmt.Sprintf(toggleQuery, column),
		actorID, target.ID(), string(reactionType), uuid.New().String())
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("%s %s not found", target.Kind(), target.ID())
		}
		return nil, upstream(err, "error toggling reaction")
	}

	if len(rows) > 0 {
		return &models.ToggleResult{Action: rows[0].Action, Reaction: rows[0].Reaction}, nil
	}

	// A concurrent identical toggle inserted the row first; the tuple is present.
	var existing models.Reaction
	err = r.DB.GetContext(ctx, &existing, fmt.Sprintf(findReactionQuery, column),
		actorID, target.ID(), string(reactionType))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.Conflict("reaction changed concurrently, retry")
		}
		return nil, upstream(err, "error reading reaction")
	}

	return &models.ToggleResult{Action: models.ToggleAdded, Reaction: existing}, nil
}
