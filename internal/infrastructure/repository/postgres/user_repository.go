package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/usecase"
)

const userColumns = "id, username, email, password, token, favorites, created_at, updated_at, deleted_at"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE deleted_at IS NULL ORDER BY id"

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	numericID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return user.User{}, false, nil
	}
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ? AND deleted_at IS NULL")
	return r.getOne(ctx, "get user by id", query, numericID)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, bool, error) {
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE email = ? AND deleted_at IS NULL")
	return r.getOne(ctx, "get user by email", query, user.NormalizeEmail(email))
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	favorites, err := encodeFavorites(u.Favorites)
	if err != nil {
		return user.User{}, err
	}

	query := `INSERT INTO users (username, email, password, token, favorites)
VALUES (:username, :email, :password, :token, :favorites)
RETURNING ` + userColumns
	named, args, err := sqlx.Named(query, userTableModel{
		Username:  u.Username,
		Email:     user.NormalizeEmail(u.Email),
		Password:  u.Password,
		Token:     u.Token,
		Favorites: favorites,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("build insert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(named), args...); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("%w: email already registered", usecase.ErrConflict)
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain()
}

func (r *UserRepository) Update(ctx context.Context, id string, patch user.Patch) (user.User, error) {
	numericID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: user=%s", usecase.ErrNotFound, id)
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	if patch.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *patch.Username)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, user.NormalizeEmail(*patch.Email))
	}
	if patch.Password != nil {
		sets = append(sets, "password = ?")
		args = append(args, *patch.Password)
	}
	if patch.Favorites != nil {
		favorites, err := encodeFavorites(*patch.Favorites)
		if err != nil {
			return user.User{}, err
		}
		sets = append(sets, "favorites = ?")
		args = append(args, favorites)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, numericID)

	query := r.db.Rebind("UPDATE users SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND deleted_at IS NULL RETURNING " + userColumns)

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, fmt.Errorf("%w: user=%s", usecase.ErrNotFound, id)
		}
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("%w: email already registered", usecase.ErrConflict)
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return row.toDomain()
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, args ...any) (user.User, bool, error) {
	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return user.User{}, false, err
	}
	return item, true, nil
}

func (m userTableModel) toDomain() (user.User, error) {
	favorites := user.FavoriteSet{}
	if strings.TrimSpace(m.Favorites) != "" {
		if err := sonic.UnmarshalString(m.Favorites, &favorites); err != nil {
			return user.User{}, fmt.Errorf("decode favorites of user %d: %w", m.ID, err)
		}
	}

	return user.User{
		ID:        strconv.FormatInt(m.ID, 10),
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		Token:     m.Token,
		Favorites: favorites,
	}, nil
}

func encodeFavorites(favorites user.FavoriteSet) (string, error) {
	raw, err := sonic.Marshal(favorites)
	if err != nil {
		return "", fmt.Errorf("encode favorites: %w", err)
	}
	return string(raw), nil
}
