package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/game"
)

// ResultRepository stores finished game results and mid-game snapshots.
type ResultRepository struct {
	db *DB
}

// NewResultRepository binds the repository to a database.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult upserts the final record of a game.
func (r *ResultRepository) SaveResult(ctx context.Context, result *game.GameResult) error {
	standings, err := json.Marshal(result.Standings)
	if err != nil {
		return fmt.Errorf("marshal standings: %w", err)
	}
	const q = `
INSERT INTO game_results
	(game_id, winner, rounds, standings, dice_rolls, money_moved, bankruptcies, cards_played, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (game_id) DO UPDATE SET
	winner = EXCLUDED.winner,
	rounds = EXCLUDED.rounds,
	standings = EXCLUDED.standings,
	dice_rolls = EXCLUDED.dice_rolls,
	money_moved = EXCLUDED.money_moved,
	bankruptcies = EXCLUDED.bankruptcies,
	cards_played = EXCLUDED.cards_played,
	started_at = EXCLUDED.started_at,
	finished_at = EXCLUDED.finished_at`
	_, err = r.db.pool.Exec(ctx, q,
		result.GameID, result.Winner, result.Rounds, standings,
		result.DiceRolls, result.MoneyMoved, result.Bankruptcies,
		result.CardsPlayed, result.Started, result.Finished)
	if err != nil {
		return fmt.Errorf("save result for %s: %w", result.GameID, err)
	}
	r.db.logger.Info("game result persisted",
		zap.String("game_id", result.GameID),
		zap.String("winner", result.Winner),
		zap.Int("rounds", result.Rounds))
	return nil
}

// GetResult loads one game's final record.
func (r *ResultRepository) GetResult(ctx context.Context, gameID string) (*game.GameResult, error) {
	const q = `
SELECT game_id, winner, rounds, standings, dice_rolls, money_moved, bankruptcies, cards_played, started_at, finished_at
FROM game_results WHERE game_id = $1`
	var (
		result    game.GameResult
		standings []byte
	)
	err := r.db.pool.QueryRow(ctx, q, gameID).Scan(
		&result.GameID, &result.Winner, &result.Rounds, &standings,
		&result.DiceRolls, &result.MoneyMoved, &result.Bankruptcies,
		&result.CardsPlayed, &result.Started, &result.Finished)
	if err != nil {
		return nil, fmt.Errorf("load result for %s: %w", gameID, err)
	}
	if err := json.Unmarshal(standings, &result.Standings); err != nil {
		return nil, fmt.Errorf("unmarshal standings: %w", err)
	}
	return &result, nil
}

// RecentResults lists the latest finished games.
func (r *ResultRepository) RecentResults(ctx context.Context, limit int) ([]*game.GameResult, error) {
	const q = `
SELECT game_id, winner, rounds, standings, dice_rolls, money_moved, bankruptcies, cards_played, started_at, finished_at
FROM game_results ORDER BY finished_at DESC LIMIT $1`
	rows, err := r.db.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*game.GameResult
	for rows.Next() {
		var (
			result    game.GameResult
			standings []byte
		)
		if err := rows.Scan(
			&result.GameID, &result.Winner, &result.Rounds, &standings,
			&result.DiceRolls, &result.MoneyMoved, &result.Bankruptcies,
			&result.CardsPlayed, &result.Started, &result.Finished); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		if err := json.Unmarshal(standings, &result.Standings); err != nil {
			return nil, fmt.Errorf("unmarshal standings: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// SaveSnapshot stores a checksummed mid-game snapshot.
func (r *ResultRepository) SaveSnapshot(ctx context.Context, snap *game.Snapshot) error {
	checksum, err := snap.Checksum()
	if err != nil {
		return err
	}
	payload, err := snap.Encode()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO game_snapshots (game_id, taken_at, checksum, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (game_id, taken_at) DO NOTHING`
	if _, err := r.db.pool.Exec(ctx, q, snap.GameID, snap.Taken, checksum, payload); err != nil {
		return fmt.Errorf("save snapshot for %s: %w", snap.GameID, err)
	}
	return nil
}

// LatestSnapshot loads the most recent snapshot of a game, verifying its
// checksum.
func (r *ResultRepository) LatestSnapshot(ctx context.Context, gameID string) (*game.Snapshot, error) {
	const q = `
SELECT checksum, payload FROM game_snapshots
WHERE game_id = $1 ORDER BY taken_at DESC LIMIT 1`
	var (
		stored  string
		payload []byte
	)
	if err := r.db.pool.QueryRow(ctx, q, gameID).Scan(&stored, &payload); err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", gameID, err)
	}
	snap, err := game.DecodeSnapshot(payload)
	if err != nil {
		return nil, err
	}
	actual, err := snap.Checksum()
	if err != nil {
		return nil, err
	}
	if actual != stored {
		return nil, fmt.Errorf("snapshot for %s failed checksum verification", gameID)
	}
	return snap, nil
}

// PruneSnapshotsBefore drops snapshots older than the cutoff.
func (r *ResultRepository) PruneSnapshotsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.pool.Exec(ctx,
		`DELETE FROM game_snapshots WHERE taken_at < $1`, cutoff)
	return err
}
