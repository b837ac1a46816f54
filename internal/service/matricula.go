package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DanielCC02/Acedema-Back/internal/model"
)

const (
	MsgMatriculaNoEncontrada = "Matrícula no encontrada."
	MsgMatriculaDuplicada    = "La persona ya cuenta con una matrícula para el periodo."

	EstadoMatriculaActiva = "activa"
)

type MatriculaStore interface {
	MatriculaPorPersona(ctx context.Context, personaID string) (model.Matricula, error)
	MatriculaPorPersonaYPeriodo(ctx context.Context, personaID, periodo string) (model.Matricula, error)
	CrearMatricula(ctx context.Context, matricula model.Matricula) error
}

type MatriculaService struct {
	store    MatriculaStore
	personas PersonaStore
}

func NewMatriculaService(store MatriculaStore, personas PersonaStore) *MatriculaService {
	return &MatriculaService{store: store, personas: personas}
}

// BuscarMatricula returns the most recent enrollment for the person.
func (s *MatriculaService) BuscarMatricula(ctx context.Context, personaID string) Result[model.Matricula] {
	if strings.TrimSpace(personaID) == "" {
		return fail[model.Matricula]("El identificador de la persona es requerido.")
	}

	matricula, err := s.store.MatriculaPorPersona(ctx, personaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail[model.Matricula](MsgMatriculaNoEncontrada)
		}
		return fail[model.Matricula]("Error al consultar la matrícula.")
	}
	return ok(matricula)
}

type SolicitudMatricula struct {
	PersonaID string
	Periodo   string
	Grado     string
}

func (s *MatriculaService) Matricular(ctx context.Context, req SolicitudMatricula) Result[model.Matricula] {
	var errores []string
	req.PersonaID = strings.TrimSpace(req.PersonaID)
	req.Periodo = strings.TrimSpace(req.Periodo)
	req.Grado = strings.TrimSpace(req.Grado)

	if req.PersonaID == "" {
		errores = append(errores, "El identificador de la persona es requerido.")
	}
	if req.Periodo == "" {
		errores = append(errores, "El periodo es requerido.")
	}
	if req.Grado == "" {
		errores = append(errores, "El grado es requerido.")
	}
	if len(errores) > 0 {
		return fail[model.Matricula](errores...)
	}

	if _, err := s.personas.PersonaPorID(ctx, req.PersonaID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail[model.Matricula](MsgPersonaNoEncontrada)
		}
		return fail[model.Matricula]("Error al consultar la persona.")
	}

	_, err := s.store.MatriculaPorPersonaYPeriodo(ctx, req.PersonaID, req.Periodo)
	if err == nil {
		return fail[model.Matricula](MsgMatriculaDuplicada)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fail[model.Matricula]("Error al consultar la matrícula.")
	}

	matricula := model.Matricula{
		ID:             uuid.NewString(),
		PersonaID:      req.PersonaID,
		Periodo:        req.Periodo,
		Grado:          req.Grado,
		Estado:         EstadoMatriculaActiva,
		FechaMatricula: time.Now().UTC(),
	}
	if err := s.store.CrearMatricula(ctx, matricula); err != nil {
		return fail[model.Matricula]("Error al registrar la matrícula.")
	}
	return ok(matricula)
}
