package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

// Store is the MySQL backend. Rooms carry a version column; SaveRoom only
// commits when the stored version still matches the one the caller read, so
// two processes sharing the database cannot silently overwrite each other.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func Connect(dsn string, log logrus.FieldLogger) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	log.Info("mysql connected")
	return &Store{db: db, log: log}, nil
}

// RunMigrations applies every *.sql file in dir in lexical order. Tolerant
// of a missing directory so fresh checkouts still start.
func (s *Store) RunMigrations(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err = s.db.ExecContext(mctx, string(b))
		cancel()
		if err != nil {
			return fmt.Errorf("migration %s: %w", file, err)
		}
		s.log.WithField("file", file).Info("migration applied")
	}
	return nil
}

func (s *Store) ListRooms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan room name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	room := models.NewRoom(name)
	err := s.db.QueryRowContext(ctx,
		`SELECT total_pool, version FROM rooms WHERE name = ?`, name,
	).Scan(&room.TotalPool, &room.Version)
	if err == sql.ErrNoRows {
		return nil, store.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, display_name, contribution, joined_at FROM room_members WHERE room_name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("get members of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Contribution, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		room.Members[m.ID] = m
	}
	return room, rows.Err()
}

func (s *Store) SaveRoom(ctx context.Context, room *models.Room) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if room.Version == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (name, total_pool, version) VALUES (?, ?, 1)`,
			room.Name, room.TotalPool); err != nil {
			if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
				// a concurrent creator got there first
				return store.ErrVersionConflict
			}
			return fmt.Errorf("insert room %q: %w", room.Name, err)
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE rooms SET total_pool = ?, version = version + 1 WHERE name = ? AND version = ?`,
			room.TotalPool, room.Name, room.Version)
		if err != nil {
			return fmt.Errorf("update room %q: %w", room.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return store.ErrVersionConflict
		}
	}

	// members are immutable after creation, so an upsert only ever inserts
	// the newly joined ones
	for id, m := range room.Members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_members (room_name, member_id, display_name, contribution, joined_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE member_id = member_id`,
			room.Name, id, m.DisplayName, m.Contribution, m.JoinedAt); err != nil {
			return fmt.Errorf("save member %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit room %q: %w", room.Name, err)
	}
	room.Version++
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, room string, msg models.Message, keep int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (room_name, sender_id, display_name, body, sent_at) VALUES (?, ?, ?, ?, ?)`,
		room, msg.SenderID, msg.DisplayName, msg.Text, msg.SentAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if keep > 0 {
		// MySQL cannot reference the target table in a subquery directly,
		// hence the derived table
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM messages WHERE room_name = ? AND id NOT IN (
				SELECT id FROM (
					SELECT id FROM messages WHERE room_name = ? ORDER BY id DESC LIMIT ?
				) newest
			)`, room, room, keep); err != nil {
			return fmt.Errorf("prune messages: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) Messages(ctx context.Context, room string, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sender_id, display_name, body, sent_at FROM (
			SELECT id, sender_id, display_name, body, sent_at
			FROM messages WHERE room_name = ? ORDER BY id DESC LIMIT ?
		) newest ORDER BY id ASC`, room, limit)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.SenderID, &m.DisplayName, &m.Text, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) AppendTransactions(ctx context.Context, room string, entries []models.LedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (room_name, member_id, kind, description, total_amount, member_share, percentage, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			room, e.MemberID, string(e.Kind), e.Description, e.TotalAmount, e.MemberShare, e.Percentage, e.RecordedAt); err != nil {
			return fmt.Errorf("insert transaction for %q: %w", e.MemberID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Transactions(ctx context.Context, room, memberID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, description, total_amount, member_share, percentage, recorded_at
		FROM transactions WHERE room_name = ? AND member_id = ? ORDER BY id ASC`, room, memberID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var kind string
		if err := rows.Scan(&kind, &t.Description, &t.TotalAmount, &t.MemberShare, &t.Percentage, &t.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = models.TransactionKind(kind)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }
