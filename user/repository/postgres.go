package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	commonErrors "github.com/dtrann/clothify/internal/common/errors"
)

// UserStore owns the users rows.
type UserStore interface {
	InsertUser(c context.Context, param InsertUserParams) (User, error)
	FindUserByEmail(c context.Context, email string) (User, error)
	FindUserByID(c context.Context, userID uuid.UUID) (User, error)
	UpdateUser(c context.Context, param UpdateUserParams) (User, error)
	DeleteUser(c context.Context, userID uuid.UUID) (bool, error)
}

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const uniqueViolation = "23505"

const insertUser = `
insert into users (name, email, password, address, phone, avatar_url, role)
values ($1, $2, $3, $4, $5, $6, $7)
returning id,
    name,
    email,
    password,
    coalesce(address, ''),
    coalesce(phone, ''),
    coalesce(avatar_url, ''),
    role,
    created_at,
    updated_at
`

func (s *PostgresUserStore) InsertUser(c context.Context, param InsertUserParams) (User, error) {
	user, err := scanUser(s.pool.QueryRow(
		c,
		insertUser,
		param.Name,
		param.Email,
		param.Password,
		param.Address,
		param.Phone,
		param.AvatarURL,
		param.Role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, commonErrors.ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

const findUserByEmail = `
select id,
    name,
    email,
    password,
    coalesce(address, ''),
    coalesce(phone, ''),
    coalesce(avatar_url, ''),
    role,
    created_at,
    updated_at
from users
where email = $1
`

func (s *PostgresUserStore) FindUserByEmail(c context.Context, email string) (User, error) {
	return scanUser(s.pool.QueryRow(c, findUserByEmail, email))
}

const findUserByID = `
select id,
    name,
    email,
    password,
    coalesce(address, ''),
    coalesce(phone, ''),
    coalesce(avatar_url, ''),
    role,
    created_at,
    updated_at
from users
where id = $1
`

func (s *PostgresUserStore) FindUserByID(c context.Context, userID uuid.UUID) (User, error) {
	return scanUser(s.pool.QueryRow(c, findUserByID, userID))
}

const updateUser = `
update users
set name = $2,
    address = $3,
    phone = $4,
    avatar_url = $5,
    updated_at = now()
where id = $1
returning id,
    name,
    email,
    password,
    coalesce(address, ''),
    coalesce(phone, ''),
    coalesce(avatar_url, ''),
    role,
    created_at,
    updated_at
`

func (s *PostgresUserStore) UpdateUser(c context.Context, param UpdateUserParams) (User, error) {
	return scanUser(s.pool.QueryRow(
		c,
		updateUser,
		param.ID,
		param.Name,
		param.Address,
		param.Phone,
		param.AvatarURL,
	))
}

const deleteUser = `delete from users where id = $1`

func (s *PostgresUserStore) DeleteUser(c context.Context, userID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(c, deleteUser, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Address,
		&user.Phone,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, commonErrors.ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}
