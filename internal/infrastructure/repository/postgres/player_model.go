package postgres

import (
	"database/sql"
)

const playerTable = "jugadores"

type playerTableModel struct {
	ID                   int64          `db:"jugador_id"`
	Nombre               string         `db:"nombre"`
	Apellidos            string         `db:"apellidos"`
	FechaNacimiento      sql.NullTime   `db:"fecha_nacimiento"`
	CategoriaPrincipalID sql.NullInt64  `db:"categoria_principal_id"`
	Email                sql.NullString `db:"email"`
}

// playerInsertModel field order is the positional bind order of the insert.
type playerInsertModel struct {
	Nombre               string  `db:"nombre"`
	Apellidos            string  `db:"apellidos"`
	FechaNacimiento      string  `db:"fecha_nacimiento"`
	CategoriaPrincipalID string  `db:"categoria_principal_id"`
	Email                *string `db:"email"`
}

type playerCreatedModel struct {
	ID     int64  `db:"jugador_id"`
	Nombre string `db:"nombre"`
}
