package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jugadores-api/internal/domain/player"
	"github.com/riskibarqy/jugadores-api/internal/platform/database"
	qb "github.com/riskibarqy/jugadores-api/internal/platform/querybuilder"
)

type PlayerRepository struct {
	pool *database.Pool
}

var playerSelectColumns = []string{
	"jugador_id",
	"nombre",
	"apellidos",
	"fecha_nacimiento",
	"categoria_principal_id",
	"email",
}

func NewPlayerRepository(pool *database.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playerTable).
		OrderBy("jugador_id", qb.Asc).
		ToSQL()
	if err != nil {
		return nil, wrapBuildError(err, "build select jugadores query")
	}

	var rows []playerTableModel
	err = r.pool.WithConn(ctx, func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, classifyError(err, "select jugadores")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:                   row.ID,
			Nombre:               row.Nombre,
			Apellidos:            row.Apellidos,
			FechaNacimiento:      row.FechaNacimiento.Time,
			CategoriaPrincipalID: row.CategoriaPrincipalID.Int64,
			Email:                nullStringToPtr(row.Email),
		})
	}

	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, in player.NewPlayer) (player.Created, error) {
	query, args, err := qb.InsertModel(playerTable, playerInsertModel{
		Nombre:               in.Nombre,
		Apellidos:            in.Apellidos,
		FechaNacimiento:      in.FechaNacimiento,
		CategoriaPrincipalID: in.CategoriaPrincipalID,
		Email:                in.Email,
	}, "jugador_id", "nombre")
	if err != nil {
		return player.Created{}, wrapBuildError(err, "build insert jugador query")
	}

	var row playerCreatedModel
	err = r.pool.WithConn(ctx, func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &row, query, args...)
	})
	if err != nil {
		return player.Created{}, classifyError(err, "insert jugador")
	}

	return player.Created{ID: row.ID, Nombre: row.Nombre}, nil
}
