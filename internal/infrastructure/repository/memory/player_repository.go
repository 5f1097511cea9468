package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jugadores-api/internal/domain/player"
)

const dateLayout = "2006-01-02"

// PlayerRepository keeps rows in process memory and assigns ids from a
// sequence, mirroring a SERIAL primary key.
type PlayerRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]player.Player
}

func NewPlayerRepository(seed []player.Player) *PlayerRepository {
	rows := make(map[int64]player.Player, len(seed))
	var maxID int64
	for _, p := range seed {
		rows[p.ID] = p
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return &PlayerRepository{
		nextID: maxID + 1,
		rows:   rows,
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, in player.NewPlayer) (player.Created, error) {
	birth, err := time.Parse(dateLayout, in.FechaNacimiento)
	if err != nil {
		return player.Created{}, crerr.Mark(crerr.Wrapf(err, "invalid fecha_nacimiento %q", in.FechaNacimiento), player.ErrQuery)
	}
	categoriaID, err := strconv.ParseInt(strings.TrimSpace(in.CategoriaPrincipalID), 10, 64)
	if err != nil {
		return player.Created{}, crerr.Mark(crerr.Newf("invalid input syntax for type integer: %q", in.CategoriaPrincipalID), player.ErrQuery)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.rows[id] = player.Player{
		ID:                   id,
		Nombre:               in.Nombre,
		Apellidos:            in.Apellidos,
		FechaNacimiento:      birth,
		CategoriaPrincipalID: categoriaID,
		Email:                in.Email,
	}

	return player.Created{ID: id, Nombre: in.Nombre}, nil
}

// Count reports the number of stored rows.
func (r *PlayerRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
