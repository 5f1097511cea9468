package player

import (
	"errors"
	"time"
)

var (
	// ErrConnectivity marks failures reaching the database (pool acquisition,
	// dropped sockets, TLS handshakes).
	ErrConnectivity = errors.New("database unreachable")
	// ErrQuery marks failures reported by the database itself, such as
	// constraint violations or malformed statements.
	ErrQuery = errors.New("database query failed")
)

// Player is one row of the jugadores table.
type Player struct {
	ID                   int64
	Nombre               string
	Apellidos            string
	FechaNacimiento      time.Time
	CategoriaPrincipalID int64
	Email                *string
}

// NewPlayer carries the fields bound to the insert statement. FechaNacimiento
// and CategoriaPrincipalID hold the client's values as text; the database
// parses them into the column types.
type NewPlayer struct {
	Nombre               string
	Apellidos            string
	FechaNacimiento      string
	CategoriaPrincipalID string
	Email                *string
}

// Created is what the database echoes back after an insert.
type Created struct {
	ID     int64
	Nombre string
}
