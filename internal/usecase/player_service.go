package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/jugadores-api/internal/domain/player"
)

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// CreatePlayerInput mirrors the create payload. CategoriaPrincipalID is the
// raw client value as text; nil means the field was absent or null.
type CreatePlayerInput struct {
	Nombre               string
	Apellidos            string
	FechaNacimiento      string
	CategoriaPrincipalID *string
	Email                *string
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

func (s *PlayerService) CreatePlayer(ctx context.Context, in CreatePlayerInput) (player.Created, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CreatePlayer")
	defer span.End()

	if missing := missingCreateFields(in); len(missing) > 0 {
		return player.Created{}, fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	created, err := s.playerRepo.Create(ctx, player.NewPlayer{
		Nombre:               in.Nombre,
		Apellidos:            in.Apellidos,
		FechaNacimiento:      in.FechaNacimiento,
		CategoriaPrincipalID: *in.CategoriaPrincipalID,
		Email:                normalizeEmail(in.Email),
	})
	if err != nil {
		return player.Created{}, fmt.Errorf("create player: %w", err)
	}

	return created, nil
}

func missingCreateFields(in CreatePlayerInput) []string {
	var missing []string
	if strings.TrimSpace(in.Nombre) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(in.Apellidos) == "" {
		missing = append(missing, "apellidos")
	}
	if strings.TrimSpace(in.FechaNacimiento) == "" {
		missing = append(missing, "fecha_nacimiento")
	}
	if in.CategoriaPrincipalID == nil || strings.TrimSpace(*in.CategoriaPrincipalID) == "" {
		missing = append(missing, "categoria_principal_id")
	}
	return missing
}

// normalizeEmail stores blank addresses as NULL.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
