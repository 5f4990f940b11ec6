package chatbot

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/waroutehq/waroute/internal/db/sqlc"
)

// fakeRow implements pgx.Row with a custom scan function.
type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r *fakeRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

// fakeDBTX implements sqlc.DBTX for unit testing.
type fakeDBTX struct {
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (d *fakeDBTX) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (d *fakeDBTX) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (d *fakeDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if d.queryRowFunc != nil {
		return d.queryRowFunc(ctx, sql, args...)
	}
	return &fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
}

// makeChatbotRow creates a fakeRow that populates a sqlc.Chatbot via Scan.
func makeChatbotRow(id pgtype.UUID, name, apiKey string) *fakeRow {
	return &fakeRow{
		scanFunc: func(dest ...any) error {
			if len(dest) < 5 {
				return pgx.ErrNoRows
			}
			*dest[0].(*pgtype.UUID) = id
			*dest[1].(*string) = name
			*dest[2].(*string) = apiKey
			*dest[3].(*pgtype.Timestamptz) = pgtype.Timestamptz{}
			*dest[4].(*pgtype.Timestamptz) = pgtype.Timestamptz{}
			return nil
		},
	}
}

func makeAPIKeyRow(key string) *fakeRow {
	return &fakeRow{
		scanFunc: func(dest ...any) error {
			if len(dest) < 1 {
				return pgx.ErrNoRows
			}
			*dest[0].(*string) = key
			return nil
		},
	}
}

func makeNoRow() *fakeRow {
	return &fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
}

func mustParseUUID(s string) pgtype.UUID {
	var u pgtype.UUID
	_ = u.Scan(s)
	return u
}

func TestGet(t *testing.T) {
	chatbotUUID := mustParseUUID("00000000-0000-0000-0000-000000000001")
	chatbotID := chatbotUUID.String()

	db := &fakeDBTX{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return makeChatbotRow(chatbotUUID, "support-bot", "key-1")
		},
	}
	svc := NewService(nil, sqlc.New(db))

	got, err := svc.Get(context.Background(), chatbotID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != chatbotID {
		t.Fatalf("expected id %q, got %q", chatbotID, got.ID)
	}
	if got.Name != "support-bot" {
		t.Fatalf("expected name %q, got %q", "support-bot", got.Name)
	}
}

func TestGetNotFound(t *testing.T) {
	db := &fakeDBTX{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return makeNoRow()
		},
	}
	svc := NewService(nil, sqlc.New(db))

	_, err := svc.Get(context.Background(), "00000000-0000-0000-0000-000000000001")
	if !errors.Is(err, ErrChatbotNotFound) {
		t.Fatalf("expected ErrChatbotNotFound, got %v", err)
	}
}

func TestGetInvalidID(t *testing.T) {
	svc := NewService(nil, sqlc.New(&fakeDBTX{}))

	_, err := svc.Get(context.Background(), "not-a-uuid")
	if err == nil {
		t.Fatal("expected error for invalid uuid, got nil")
	}
}

func TestAPIKey(t *testing.T) {
	chatbotID := "00000000-0000-0000-0000-000000000001"

	tests := []struct {
		name      string
		row       *fakeRow
		want      string
		wantErrIs error
	}{
		{
			name: "returns stored key",
			row:  makeAPIKeyRow("sk-live-123"),
			want: "sk-live-123",
		},
		{
			name: "trims surrounding whitespace",
			row:  makeAPIKeyRow("  sk-live-123\n"),
			want: "sk-live-123",
		},
		{
			name:      "blank key treated as unset",
			row:       makeAPIKeyRow("   "),
			wantErrIs: ErrAPIKeyMissing,
		},
		{
			name:      "missing chatbot",
			row:       makeNoRow(),
			wantErrIs: ErrChatbotNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDBTX{
				queryRowFunc: func(context.Context, string, ...any) pgx.Row {
					return tt.row
				},
			}
			svc := NewService(nil, sqlc.New(db))

			got, err := svc.APIKey(context.Background(), chatbotID)
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("expected %v, got %v", tt.wantErrIs, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected key %q, got %q", tt.want, got)
			}
		})
	}
}

func TestServiceRequiresQueries(t *testing.T) {
	svc := NewService(nil, nil)

	if _, err := svc.Get(context.Background(), "00000000-0000-0000-0000-000000000001"); err == nil {
		t.Fatal("expected error when queries are not configured")
	}
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error when queries are not configured")
	}
	if _, err := svc.APIKey(context.Background(), "00000000-0000-0000-0000-000000000001"); err == nil {
		t.Fatal("expected error when queries are not configured")
	}
}
