package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGXFavoritesRepository_Toggle(t *testing.T) {
	user := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	tests := map[string]struct {
		deleteTag      string
		expected       bool
		expectInserted bool
	}{
		"adds missing favorite":     {deleteTag: "DELETE 0", expected: true, expectInserted: true},
		"removes existing favorite": {deleteTag: "DELETE 1", expected: false, expectInserted: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inserted := false
			tx := &stubTx{execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
				if strings.Contains(query, "DELETE") {
					return pgconn.NewCommandTag(tt.deleteTag), nil
				}
				inserted = true
				if args[1] != "ChIJ123" {
					t.Fatalf("unexpected business id %v", args[1])
				}
				return pgconn.NewCommandTag("INSERT 0 1"), nil
			}}
			repo := &PGXFavoritesRepository{pool: &stubPool{beginTxFunc: func(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
				return tx, nil
			}}}

			got, err := repo.Toggle(context.Background(), user, "ChIJ123")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected || inserted != tt.expectInserted {
				t.Fatalf("expected favorite=%v inserted=%v, got %v %v", tt.expected, tt.expectInserted, got, inserted)
			}
			if !tx.committed {
				t.Fatalf("expected commit")
			}
		})
	}
}

func TestPGXFavoritesRepository_List(t *testing.T) {
	user := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	repo := &PGXFavoritesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					*dest[0].(*uuid.UUID) = user
					*dest[1].(*string) = "ChIJ123"
					*dest[2].(*time.Time) = time.Now()
					return nil
				},
			}}, nil
		},
	}}

	favorites, err := repo.List(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(favorites) != 1 || favorites[0].BusinessID != "ChIJ123" || favorites[0].UserID != user {
		t.Fatalf("unexpected favorites: %+v", favorites)
	}
}
