//nolint:revive // exported
// Package flowstore persists flow documents to sqlite. It is the repo's
// implementation of the save collaborator the editor core is written against:
// the autosave scheduler polls Document.IsDirty and hands Document.FlowData()
// to SaveFlow.
package flowstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

var ErrNoFlowFound = sql.ErrNoRows

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Open opens (or creates) a sqlite database at path and prepares the schema.
// Use ":memory:" for tests.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := New(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS flows (
	id BLOB PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	schema_version INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS flow_nodes (
	id BLOB PRIMARY KEY,
	flow_id BLOB NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	position_x REAL NOT NULL,
	position_y REAL NOT NULL,
	data TEXT NOT NULL,
	sort_order INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_flow_nodes_flow ON flow_nodes(flow_id);
CREATE TABLE IF NOT EXISTS flow_edges (
	id TEXT NOT NULL,
	flow_id BLOB NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
	source_id BLOB NOT NULL,
	target_id BLOB NOT NULL,
	source_handle TEXT,
	condition TEXT,
	sort_order INTEGER NOT NULL,
	PRIMARY KEY (flow_id, id)
);
CREATE INDEX IF NOT EXISTS idx_flow_edges_flow ON flow_edges(flow_id);
`

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate flowstore schema: %w", err)
	}
	return nil
}

// SaveFlow writes the flow metadata and the full canonical document in one
// transaction. Nodes and edges are replaced wholesale; documents are small
// and the editor saves settled states, not per-keystroke diffs.
func (s *Store) SaveFlow(ctx context.Context, flow mflow.Flow, data mflow.FlowData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO flows (id, name, status, schema_version, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at`,
		flow.ID, flow.Name, string(statusOrDraft(flow.Status)), data.SchemaVersion, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert flow: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM flow_nodes WHERE flow_id = ?`, flow.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM flow_edges WHERE flow_id = ?`, flow.ID); err != nil {
		return err
	}

	for i, nd := range data.Nodes {
		nodeID, err := idwrap.NewText(nd.ID)
		if err != nil {
			return fmt.Errorf("node %s: %w", nd.ID, err)
		}
		raw, err := json.Marshal(nd.Data)
		if err != nil {
			return fmt.Errorf("encode node data %s: %w", nd.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flow_nodes (id, flow_id, kind, position_x, position_y, data, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			nodeID, flow.ID, nd.Kind, nd.Position.X, nd.Position.Y, string(raw), i)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", nd.ID, err)
		}
	}

	for i, ed := range data.Edges {
		sourceID, err := idwrap.NewText(ed.Source)
		if err != nil {
			return fmt.Errorf("edge %s source: %w", ed.ID, err)
		}
		targetID, err := idwrap.NewText(ed.Target)
		if err != nil {
			return fmt.Errorf("edge %s target: %w", ed.ID, err)
		}
		var condRaw *string
		if ed.Condition != nil {
			raw, err := json.Marshal(ed.Condition)
			if err != nil {
				return fmt.Errorf("encode condition %s: %w", ed.ID, err)
			}
			str := string(raw)
			condRaw = &str
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flow_edges (id, flow_id, source_id, target_id, source_handle, condition, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ed.ID, flow.ID, sourceID, targetID, ed.SourceHandle, condRaw, i)
		if err != nil {
			return fmt.Errorf("insert edge %s: %w", ed.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("flow saved",
		slog.String("flow", flow.ID.String()),
		slog.Int("nodes", len(data.Nodes)),
		slog.Int("edges", len(data.Edges)))
	return nil
}

// LoadFlow reads the flow metadata and its canonical document. Callers feed
// the result straight into Document.Load, which decides whether the
// reconciler still has to run based on the stored schema version.
func (s *Store) LoadFlow(ctx context.Context, id idwrap.IDWrap) (mflow.Flow, mflow.FlowData, error) {
	var (
		flow   mflow.Flow
		status string
	)
	flow.ID = id
	err := s.db.QueryRowContext(ctx,
		`SELECT name, status, schema_version FROM flows WHERE id = ?`, id).
		Scan(&flow.Name, &status, &flow.SchemaVersion)
	if err != nil {
		return mflow.Flow{}, mflow.FlowData{}, err
	}
	flow.Status = mflow.FlowStatus(status)

	data := mflow.FlowData{SchemaVersion: flow.SchemaVersion}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, position_x, position_y, data
		FROM flow_nodes WHERE flow_id = ? ORDER BY sort_order`, id)
	if err != nil {
		return mflow.Flow{}, mflow.FlowData{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			nodeID idwrap.IDWrap
			nd     mflow.FlowNodeData
			raw    string
		)
		if err := rows.Scan(&nodeID, &nd.Kind, &nd.Position.X, &nd.Position.Y, &raw); err != nil {
			return mflow.Flow{}, mflow.FlowData{}, err
		}
		nd.ID = nodeID.String()
		if err := json.Unmarshal([]byte(raw), &nd.Data); err != nil {
			return mflow.Flow{}, mflow.FlowData{}, fmt.Errorf("decode node data %s: %w", nd.ID, err)
		}
		data.Nodes = append(data.Nodes, nd)
	}
	if err := rows.Err(); err != nil {
		return mflow.Flow{}, mflow.FlowData{}, err
	}

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, target_id, source_handle, condition
		FROM flow_edges WHERE flow_id = ? ORDER BY sort_order`, id)
	if err != nil {
		return mflow.Flow{}, mflow.FlowData{}, err
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var (
			ed       mflow.FlowEdgeData
			sourceID idwrap.IDWrap
			targetID idwrap.IDWrap
			condRaw  *string
		)
		if err := edgeRows.Scan(&ed.ID, &sourceID, &targetID, &ed.SourceHandle, &condRaw); err != nil {
			return mflow.Flow{}, mflow.FlowData{}, err
		}
		ed.Source = sourceID.String()
		ed.Target = targetID.String()
		if condRaw != nil {
			cond := &mflow.ConditionData{}
			if err := json.Unmarshal([]byte(*condRaw), cond); err != nil {
				return mflow.Flow{}, mflow.FlowData{}, fmt.Errorf("decode condition %s: %w", ed.ID, err)
			}
			ed.Condition = cond
		}
		data.Edges = append(data.Edges, ed)
	}
	if err := edgeRows.Err(); err != nil {
		return mflow.Flow{}, mflow.FlowData{}, err
	}

	return flow, data, nil
}

func (s *Store) DeleteFlow(ctx context.Context, id idwrap.IDWrap) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM flows WHERE id = ?`, id)
	return err
}

// ListFlows returns flow metadata ordered by last update, newest first.
func (s *Store) ListFlows(ctx context.Context) ([]mflow.Flow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, schema_version FROM flows ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flows []mflow.Flow
	for rows.Next() {
		var (
			f      mflow.Flow
			status string
		)
		if err := rows.Scan(&f.ID, &f.Name, &status, &f.SchemaVersion); err != nil {
			return nil, err
		}
		f.Status = mflow.FlowStatus(status)
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

func statusOrDraft(s mflow.FlowStatus) mflow.FlowStatus {
	if s == "" {
		return mflow.FlowStatusDraft
	}
	return s
}
